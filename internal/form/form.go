// Package form implements the record form workflow shared by the add page
// and the update modal: per-field state, ordered validation with early
// exit, CEP-driven autofill and submission. The workflow knows nothing
// about the UI; callers render its state and feed edits back in.
package form

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"upanel/internal/api"
	"upanel/internal/model"
	"upanel/internal/sanitize"
)

// Field identifies one editable form field.
type Field string

// Editable fields, in display order.
const (
	FieldNome   Field = "nome"
	FieldEmail  Field = "email"
	FieldCPF    Field = "cpf"
	FieldCEP    Field = "cep"
	FieldCidade Field = "cidade"
	FieldBairro Field = "bairro"
	FieldRua    Field = "rua"
	FieldNumero Field = "numero"
)

// Fields lists every editable field in display order.
var Fields = []Field{
	FieldNome, FieldEmail, FieldCPF,
	FieldCEP, FieldCidade, FieldBairro, FieldRua, FieldNumero,
}

// Inline error messages shown next to a field.
const (
	msgRequired      = "Esse campo é obrigatório"
	msgInvalidEmail  = "Insira um email válido."
	msgInvalidNumber = "Insira um número válido."
)

// labels maps fields to the uppercase names used in notifications.
var labels = map[Field]string{
	FieldNome:   "NOME",
	FieldEmail:  "EMAIL",
	FieldCPF:    "CPF",
	FieldCEP:    "CEP",
	FieldCidade: "CIDADE",
	FieldBairro: "BAIRRO",
	FieldRua:    "RUA",
	FieldNumero: "NÚMERO",
}

// ValidationError reports the first failing check of a submission.
type ValidationError struct {
	Field   Field
	Message string // inline, next to the field
	Notice  string // transient notification text
}

func (e *ValidationError) Error() string {
	return "validation failed on " + string(e.Field) + ": " + e.Message
}

// SubmitFunc sends the validated record to the backend: create for a blank
// workflow, update for one seeded from an existing record.
type SubmitFunc func(ctx context.Context, u model.User) error

var validate = validator.New()

// Workflow holds the state of one open record form.
type Workflow struct {
	values map[Field]string
	errors map[Field]string
	id     string // empty until creation; preserved on update
	submit SubmitFunc

	// revision counts edits to the address fields a CEP lookup may
	// overwrite. A lookup result is applied only if the revision it was
	// issued against is still current.
	revision uint64
}

// New returns a blank workflow for creating a record.
func New(submit SubmitFunc) *Workflow {
	w := &Workflow{submit: submit}
	w.Reset()
	return w
}

// NewFromUser returns a workflow seeded from an existing record, for the
// update flow. The record's identifier is passed through untouched.
func NewFromUser(u model.User, submit SubmitFunc) *Workflow {
	w := New(submit)
	w.id = u.ID
	w.values[FieldNome] = u.Nome
	w.values[FieldCPF] = u.CPF
	w.values[FieldEmail] = u.Email
	// The wire carries CEP as an integer; leading zeros must come back.
	w.values[FieldCEP] = fmt.Sprintf("%08d", u.Endereco.CEP)
	w.values[FieldRua] = u.Endereco.Rua
	w.values[FieldNumero] = strconv.Itoa(u.Endereco.Numero)
	w.values[FieldBairro] = u.Endereco.Bairro
	w.values[FieldCidade] = u.Endereco.Cidade
	return w
}

// Reset restores the blank state. The identifier survives so an update
// form stays an update form.
func (w *Workflow) Reset() {
	w.values = make(map[Field]string, len(Fields))
	w.errors = make(map[Field]string, len(Fields))
	for _, f := range Fields {
		w.values[f] = ""
	}
	w.revision++
}

// Value returns the raw text of a field.
func (w *Workflow) Value(f Field) string {
	return w.values[f]
}

// FieldError returns the inline error for a field, if any.
func (w *Workflow) FieldError(f Field) (string, bool) {
	msg, ok := w.errors[f]
	return msg, ok
}

// Editing reports whether the workflow updates an existing record.
func (w *Workflow) Editing() bool {
	return w.id != ""
}

// Revision identifies the current edit generation of the address fields.
// Callers snapshot it when starting a CEP lookup.
func (w *Workflow) Revision() uint64 {
	return w.revision
}

// Set applies a user edit. The field's error is cleared immediately,
// whatever the new value is; validity is only re-assessed at submission or
// by a lookup. needLookup is true when the edit completed an 8-digit CEP
// and the caller should start the autofill lookup against Revision().
func (w *Workflow) Set(f Field, value string) (needLookup bool) {
	delete(w.errors, f)
	w.values[f] = value

	switch f {
	case FieldCEP:
		w.revision++
		needLookup = len(sanitize.CEP(value)) == 8
	case FieldRua, FieldBairro, FieldCidade:
		w.revision++
	}
	return needLookup
}

// ApplyLookup folds a CEP lookup result into the form. The overwrite is
// applied only when rev is still the current revision; a stale result (the
// user edited an address field while the lookup was in flight) is
// discarded. Reports whether the result was applied.
func (w *Workflow) ApplyLookup(addr api.Address, rev uint64) bool {
	if rev != w.revision {
		return false
	}

	w.values[FieldRua] = addr.Rua
	w.values[FieldBairro] = addr.Bairro
	w.values[FieldCidade] = addr.Cidade
	w.values[FieldCEP] = addr.CEP
	for _, f := range []Field{FieldRua, FieldBairro, FieldCidade, FieldCEP} {
		delete(w.errors, f)
	}
	w.revision++
	return true
}

// Validate runs the required-field checks in their fixed order and stops
// at the first failure, recording the inline error on that field.
func (w *Workflow) Validate() *ValidationError {
	if w.values[FieldNome] == "" {
		return w.fail(FieldNome, msgRequired, "obrigatório")
	}
	if w.values[FieldEmail] == "" {
		return w.fail(FieldEmail, msgRequired, "obrigatório")
	}
	if err := validate.Var(w.values[FieldEmail], "email"); err != nil {
		return w.fail(FieldEmail, msgInvalidEmail, "inválido")
	}
	if len(sanitize.CPF(w.values[FieldCPF])) != 11 {
		return w.fail(FieldCPF, msgRequired, "obrigatório")
	}
	if len(sanitize.CEP(w.values[FieldCEP])) != 8 {
		return w.fail(FieldCEP, msgRequired, "obrigatório")
	}
	if w.values[FieldCidade] == "" {
		return w.fail(FieldCidade, msgRequired, "obrigatório")
	}
	if w.values[FieldBairro] == "" {
		return w.fail(FieldBairro, msgRequired, "obrigatório")
	}
	if w.values[FieldRua] == "" {
		return w.fail(FieldRua, msgRequired, "obrigatório")
	}
	if w.values[FieldNumero] == "" {
		return w.fail(FieldNumero, msgRequired, "obrigatório")
	}
	return nil
}

func (w *Workflow) fail(f Field, inline, kind string) *ValidationError {
	w.errors[f] = inline
	return &ValidationError{
		Field:   f,
		Message: inline,
		Notice:  "O campo " + labels[f] + " é " + kind + "!",
	}
}

// BuildUser converts the current values into a record, generating a fresh
// identifier for a create workflow. CEP and numero are parsed to integers
// here, after stripping the CEP mask.
func (w *Workflow) BuildUser() (model.User, error) {
	cep, err := strconv.Atoi(sanitize.CEP(w.values[FieldCEP]))
	if err != nil {
		w.errors[FieldCEP] = msgRequired
		return model.User{}, &ValidationError{Field: FieldCEP, Message: msgRequired, Notice: "O campo CEP é obrigatório!"}
	}
	numero, err := strconv.Atoi(w.values[FieldNumero])
	if err != nil {
		w.errors[FieldNumero] = msgInvalidNumber
		return model.User{}, &ValidationError{Field: FieldNumero, Message: msgInvalidNumber, Notice: "O campo NÚMERO é inválido!"}
	}

	id := w.id
	if id == "" {
		id = uuid.NewString()
	}
	return model.User{
		ID:    id,
		Nome:  w.values[FieldNome],
		CPF:   w.values[FieldCPF],
		Email: w.values[FieldEmail],
		Endereco: model.Endereco{
			CEP:    cep,
			Rua:    w.values[FieldRua],
			Numero: numero,
			Bairro: w.values[FieldBairro],
			Cidade: w.values[FieldCidade],
		},
	}, nil
}

// Submit validates, builds the record and hands it to the submit function.
// A *ValidationError means nothing was sent; any other error comes from
// the remote call.
func (w *Workflow) Submit(ctx context.Context) error {
	if verr := w.Validate(); verr != nil {
		return verr
	}
	u, err := w.BuildUser()
	if err != nil {
		return err
	}
	return w.submit(ctx, u)
}
