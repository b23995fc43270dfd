package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// RecognitionResponse is the decoded body of any recognition endpoint. The
// backend answers in one of three shapes, so every field is optional.
type RecognitionResponse struct {
	Success      *bool                `json:"success"`
	Message      string               `json:"message"`
	Mensaje      string               `json:"mensaje"`
	Error        string               `json:"error"`
	Detail       string               `json:"detail"`
	Verificacion *VerificationVerdict `json:"verificacion"`
	Match        *bool                `json:"match"`
	Reconocido   *bool                `json:"reconocido"`
	Confianza    *decimal.Decimal     `json:"confianza"`
	Distance     *float64             `json:"distance"`
	Persona      *Person              `json:"persona"`
}

// Text returns the first human readable message of the response.
func (r RecognitionResponse) Text() string {
	for _, s := range []string{r.Error, r.Mensaje, r.Message, r.Detail} {
		if s != "" {
			return s
		}
	}

	return ""
}

type VerificationVerdict struct {
	Resultado           string           `json:"resultado"`
	Confianza           *decimal.Decimal `json:"confianza"`
	PersonaIdentificada *Person          `json:"persona_identificada"`
}

const VerdictAccepted = "ACEPTADO"

// Person is the matched-person descriptor. The raw payload is kept so it can be
// handed back to the caller unchanged.
type Person struct {
	FullName string
	raw      json.RawMessage
}

func (p *Person) UnmarshalJSON(b []byte) error {
	var v struct {
		NombreCompleto string `json:"nombre_completo"`
		Nombre         string `json:"nombre"`
	}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode person: %w", err)
	}

	p.FullName = v.NombreCompleto
	if p.FullName == "" {
		p.FullName = v.Nombre
	}

	p.raw = append(json.RawMessage(nil), b...)

	return nil
}

func (p Person) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(p.raw)) != 0 {
		return p.raw, nil
	}

	return json.Marshal(map[string]string{"nombre_completo": p.FullName})
}

type OutcomeStatus string

const (
	OutcomeAuthorized OutcomeStatus = "AUTHORIZED"
	OutcomeDenied     OutcomeStatus = "DENIED"
	OutcomeError      OutcomeStatus = "ERROR"
)

// Outcome is the classification of one recognition response.
type Outcome struct {
	Status         OutcomeStatus    `json:"status"`
	Confidence     *decimal.Decimal `json:"confidence,omitempty"`
	ConfidenceText string           `json:"confidence_text,omitempty"`
	Person         *Person          `json:"person,omitempty"`
	Distance       *float64         `json:"distance,omitempty"`
	Message        string           `json:"message,omitempty"`
}

// FormatPercent renders a confidence percentage rounded to an integer, e.g. "91%".
func FormatPercent(d decimal.Decimal) string {
	return d.Round(0).String() + "%"
}

type VerificationState string

const (
	StateIdle       VerificationState = "idle"
	StateCapturing  VerificationState = "capturing"
	StateSubmitted  VerificationState = "submitted"
	StateAuthorized VerificationState = "authorized"
	StateDenied     VerificationState = "denied"
	StateError      VerificationState = "error"
)

func (s VerificationState) IsTerminal() bool {
	switch s {
	case StateAuthorized, StateDenied, StateError:
		return true
	}

	return false
}

// VerificationAttempt is one capture/submit/result cycle. It is never persisted.
type VerificationAttempt struct {
	ID        uuid.UUID         `json:"id"`
	State     VerificationState `json:"state"`
	Subject   *Subject          `json:"subject,omitempty"`
	Source    ImageSource       `json:"source,omitempty"`
	Outcome   *Outcome          `json:"outcome,omitempty"`
	Message   string            `json:"message,omitempty"`
	Retryable bool              `json:"retryable"`
}

func NewVerificationAttempt() *VerificationAttempt {
	return &VerificationAttempt{
		ID:    uuid.Must(uuid.NewV4()),
		State: StateIdle,
	}
}

func (a *VerificationAttempt) transition(from []VerificationState, to VerificationState) error {
	for _, s := range from {
		if a.State == s {
			a.State = to
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.State, to)
}

func (a *VerificationAttempt) Capture(source ImageSource) error {
	if err := a.transition([]VerificationState{StateIdle}, StateCapturing); err != nil {
		return err
	}

	a.Source = source

	return nil
}

func (a *VerificationAttempt) Submit() error {
	return a.transition([]VerificationState{StateCapturing}, StateSubmitted)
}

// Resolve moves a submitted attempt to the terminal state matching the outcome.
func (a *VerificationAttempt) Resolve(o Outcome) error {
	to := StateError

	switch o.Status {
	case OutcomeAuthorized:
		to = StateAuthorized
	case OutcomeDenied:
		to = StateDenied
	case OutcomeError:
	}

	if err := a.transition([]VerificationState{StateSubmitted}, to); err != nil {
		return err
	}

	a.Outcome = &o
	a.Message = o.Message
	a.Retryable = to == StateError

	return nil
}

// Fail ends a capturing or submitted attempt with an error the user may retry.
func (a *VerificationAttempt) Fail(msg string) error {
	if err := a.transition([]VerificationState{StateCapturing, StateSubmitted}, StateError); err != nil {
		return err
	}

	a.Message = msg
	a.Retryable = true

	return nil
}

// Reset is the explicit retry. An in-flight (submitted) attempt cannot be reset.
func (a *VerificationAttempt) Reset() error {
	if a.State == StateSubmitted {
		return fmt.Errorf("%w: attempt in flight", ErrInvalidTransition)
	}

	a.State = StateIdle
	a.Source = ""
	a.Outcome = nil
	a.Message = ""
	a.Retryable = false

	return nil
}
