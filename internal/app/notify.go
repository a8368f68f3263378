package app

import (
	"errors"

	"github.com/desertthunder/siswa/internal/shared"
)

// Success messages.
const (
	MsgCreated   = "Siswa baru berhasil ditambahkan!"
	MsgUpdated   = "Data siswa berhasil diperbarui!"
	MsgDeleted   = "Data siswa berhasil dihapus!"
	MsgCleared   = "Semua data berhasil dihapus!"
	MsgExported  = "PDF berhasil diunduh!"
	MsgEditMode  = "Mode edit - Ubah data dan simpan"
	MsgThemeDark = "Tema gelap diaktifkan"
	MsgThemeLite = "Tema terang diaktifkan"
)

// Error messages.
const (
	MsgInvalid     = "Mohon lengkapi semua data yang wajib diisi"
	MsgNotFound    = "Data siswa tidak ditemukan"
	MsgPersistence = "Gagal menyimpan data, silakan coba lagi"
	MsgCancelled   = "Tindakan dibatalkan"
	MsgFailed      = "Terjadi kesalahan"
)

// Confirmation prompts for destructive commands.
const (
	PromptDelete     = "Apakah Anda yakin ingin menghapus data siswa ini?"
	PromptClear      = "PERINGATAN: Semua data siswa akan dihapus permanen. Apakah Anda yakin?"
	PromptClearAgain = "Konfirmasi sekali lagi. Data yang terhapus tidak dapat dikembalikan!"
)

// Kind classifies a [Notification].
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is the transient message shown after a command.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// IsZero reports whether no notification is pending.
func (n Notification) IsZero() bool { return n.Message == "" }

func success(msg string) Notification {
	return Notification{Kind: KindSuccess, Message: msg}
}

// Failure maps err onto the user-facing message for its kind.
func Failure(err error) Notification {
	n := Notification{Kind: KindError, Message: MsgFailed, Detail: err.Error()}
	switch {
	case errors.Is(err, shared.ErrValidation):
		n.Message = MsgInvalid
	case errors.Is(err, shared.ErrNotFound):
		n.Message = MsgNotFound
	case errors.Is(err, shared.ErrPersistence):
		n.Message = MsgPersistence
	case errors.Is(err, shared.ErrConfirmationRequired):
		n.Message = MsgCancelled
	}
	return n
}
