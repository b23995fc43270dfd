package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrNoAuthToken       = errors.New("no auth token")
	ErrInvalidTransition = errors.New("invalid state transition")

	ErrValidation   = errors.New("validation failed")
	ErrInvalidFile  = fmt.Errorf("%w: invalid file type", ErrValidation)
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrValidation)
	ErrCameraAccess = fmt.Errorf("%w: camera access", ErrValidation)

	ErrNetwork         = errors.New("network error")
	ErrRemote          = errors.New("remote error")
	ErrRosterFetch     = errors.New("roster fetch failed")
	ErrPromotionFailed = errors.New("promotion failed")
	ErrPartialFailure  = errors.New("partial failure")
	ErrMultipleOwners  = errors.New("multiple owners in roster")

	ErrUnknownMessageType = errors.New("unknown message type")
)

// User-facing messages.
const (
	ErrMsgInternal        = "Error interno del servidor"
	ErrMsgBadRequest      = "Solicitud incorrecta"
	ErrMsgUnauthorized    = "Se requiere autenticación"
	ErrMsgForbidden       = "No tiene permisos para esta acción"
	ErrMsgNotFound        = "Registro no encontrado"
	ErrMsgInvalidFile     = "Tipo de archivo no permitido"
	ErrMsgFileTooLarge    = "El archivo excede el tamaño máximo permitido"
	ErrMsgCameraAccess    = "No se pudo acceder a la cámara"
	ErrMsgVerification    = "Error en la verificación facial"
	ErrMsgBackend         = "Error al comunicarse con el servidor"
	ErrMsgRosterFetch     = "No se pudo obtener la lista de usuarios"
	ErrMsgPromotion       = "No se pudo asignar el rol de copropietario"
	ErrMsgPartialFailure  = "No se pudo retirar el rol al copropietario actual"
	ErrMsgMultipleOwners  = "Existe más de un copropietario registrado"
	ErrMsgInvalidAPIKey   = "API key inválida"
	ErrMsgMissingAPIKey   = "API key ausente"
	ErrMsgInvalidArgument = "Datos inválidos"
)

// RemoteError is a non-2xx answer (or an application-level failure flag)
// from the backend. Message is taken from the response body when present.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error: status %d: %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e.StatusCode == 404 {
		return errors.Join(ErrRemote, ErrNotFound)
	}

	return ErrRemote
}

// RemoteMessage returns the backend message carried by err, if any.
func RemoteMessage(err error) (string, bool) {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message, true
	}

	return "", false
}
