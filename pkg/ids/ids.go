// Package ids genera identificadores: UUID para filas y nanoid para llaves de objetos.
package ids

import (
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	NanoidSize     = 32
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// New devuelve un UUID v4 en texto.
func New() string {
	return uuid.New().String()
}

// NanoID identificador corto apto para rutas de almacenamiento.
func NanoID() string {
	return NanoIDSize(NanoidSize)
}

func NanoIDSize(size int) string {
	if size == 0 {
		size = NanoidSize
	}
	return gonanoid.MustGenerate(nanoidAlphabet, size)
}

// IsUUID informa si s es un UUID válido.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
