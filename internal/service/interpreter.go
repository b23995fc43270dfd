package service

import (
	"github.com/shopspring/decimal"

	"github.com/samandr77/microservices/condo/internal/entity"
)

const (
	msgAuthorized  = "Acceso autorizado"
	msgDenied      = "Acceso denegado"
	msgNoResponse  = "El servicio de reconocimiento no devolvió respuesta"
	msgNoVerdict   = "La respuesta del servicio de reconocimiento no contiene un resultado"
	msgNotAccepted = "Rostro no reconocido"
)

// Interpret classifies a recognition response. The remote service is the only
// authority on the match: no threshold is applied to the confidence here.
func Interpret(resp *entity.RecognitionResponse) entity.Outcome {
	if resp == nil {
		return entity.Outcome{Status: entity.OutcomeError, Message: msgNoResponse}
	}

	if resp.Success != nil && !*resp.Success {
		return errorOutcome(resp.Text())
	}

	switch {
	case resp.Verificacion != nil:
		v := resp.Verificacion

		confidence := v.Confianza
		if confidence == nil {
			confidence = resp.Confianza
		}

		if v.Resultado == entity.VerdictAccepted {
			person := v.PersonaIdentificada
			if person == nil {
				person = resp.Persona
			}

			return authorized(confidence, person, resp)
		}

		return denied(confidence, resp)

	case resp.Match != nil:
		if *resp.Match {
			return authorized(resp.Confianza, resp.Persona, resp)
		}

		return denied(resp.Confianza, resp)

	case resp.Reconocido != nil:
		if *resp.Reconocido {
			return authorized(resp.Confianza, resp.Persona, resp)
		}

		return denied(resp.Confianza, resp)
	}

	return errorOutcome(firstNonEmpty(resp.Text(), msgNoVerdict))
}

func authorized(confidence *decimal.Decimal, person *entity.Person, resp *entity.RecognitionResponse) entity.Outcome {
	o := entity.Outcome{
		Status:   entity.OutcomeAuthorized,
		Person:   person,
		Distance: resp.Distance,
		Message:  firstNonEmpty(resp.Text(), msgAuthorized),
	}

	setConfidence(&o, confidence)

	return o
}

func denied(confidence *decimal.Decimal, resp *entity.RecognitionResponse) entity.Outcome {
	msg := msgDenied
	if resp.Verificacion != nil || resp.Reconocido != nil {
		msg = msgNotAccepted
	}

	o := entity.Outcome{
		Status:   entity.OutcomeDenied,
		Distance: resp.Distance,
		Message:  firstNonEmpty(resp.Text(), msg),
	}

	setConfidence(&o, confidence)

	return o
}

func errorOutcome(msg string) entity.Outcome {
	return entity.Outcome{
		Status:  entity.OutcomeError,
		Message: firstNonEmpty(msg, entity.ErrMsgVerification),
	}
}

func setConfidence(o *entity.Outcome, confidence *decimal.Decimal) {
	if confidence == nil {
		return
	}

	c := *confidence
	o.Confidence = &c
	o.ConfidenceText = entity.FormatPercent(c)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
