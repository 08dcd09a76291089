package models

import (
	"github.com/securex/securex/config"
)

// FieldCipher encrypts and decrypts individual field values with a
// process-wide key. It is read-only after construction.
type FieldCipher interface {
	Encrypt(value string) (string, error)
	Decrypt(ciphertext string) (string, error)
	Key() string
}

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	Recognizer    EntityRecognizer
	Cipher        FieldCipher
	RecordStore   RecordStore
	DocumentStore DocumentStore
	TaskRouter    TaskRouter
	TaskPublisher TaskPublisher
	Config        *config.Config
}
