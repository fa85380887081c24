// Package model defines the record types exchanged with the uPanel backend.
package model

// Endereco is the postal address attached to a user record.
// CEP and Numero travel as integers on the wire; during editing they are
// kept as free text and only parsed at submission time.
type Endereco struct {
	CEP    int    `json:"cep"`
	Rua    string `json:"rua"`
	Numero int    `json:"numero"`
	Bairro string `json:"bairro"`
	Cidade string `json:"cidade"`
}

// User is the managed entity: one person record.
// ID is assigned at creation and never edited afterwards.
type User struct {
	ID       string   `json:"id"`
	Nome     string   `json:"nome"`
	CPF      string   `json:"cpf"`
	Email    string   `json:"email"`
	Endereco Endereco `json:"endereco"`
}

// Filters selects the server-side ordering of a listing request.
// Zero values mean "no ordering requested".
type Filters struct {
	Sort  string
	Order string
}

// Sort field values accepted by the backend.
const (
	SortNone   = ""
	SortNome   = "nome"
	SortEmail  = "email"
	SortCidade = "endereco.cidade"
)

// Order values accepted by the backend.
const (
	OrderNone = ""
	OrderAsc  = "asc"
	OrderDesc = "desc"
)
