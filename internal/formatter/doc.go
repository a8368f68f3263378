// package formatter renders students into documents: the registration slip (PDF or text) and roster
// exports (CSV, Markdown, plain text).
//
// Everything here is a pure function of its inputs; writing files is left to callers.
package formatter
