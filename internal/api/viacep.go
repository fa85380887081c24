package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrCEPNotFound is returned when the lookup service has no address for a
// syntactically valid CEP.
var ErrCEPNotFound = errors.New("viacep: cep not found")

// Address is a postal-code lookup result.
type Address struct {
	CEP    string // display form, e.g. "04538-133"
	Rua    string
	Bairro string
	Cidade string
}

// ViaCEP looks up addresses by 8-digit postal code. Concurrent lookups for
// the same code are collapsed into one request.
type ViaCEP struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	group   singleflight.Group
}

// NewViaCEP creates a lookup client. A nil logger is replaced with a no-op.
func NewViaCEP(baseURL string, timeout time.Duration, logger *zap.Logger) *ViaCEP {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViaCEP{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// viacepResponse mirrors the service's JSON body. A known-but-missing CEP
// comes back as 200 with {"erro": true}.
type viacepResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	Erro       bool   `json:"erro"`
}

// Lookup resolves an 8-digit CEP to an address, or ErrCEPNotFound. A caller
// joining an in-flight lookup for the same code still honors its own
// context: cancellation detaches it while the shared request runs on.
func (v *ViaCEP) Lookup(ctx context.Context, cep string) (Address, error) {
	ch := v.group.DoChan(cep, func() (any, error) {
		return v.lookup(ctx, cep)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return Address{}, res.Err
		}
		return res.Val.(Address), nil
	case <-ctx.Done():
		return Address{}, ctx.Err()
	}
}

func (v *ViaCEP) lookup(ctx context.Context, cep string) (Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", v.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Address{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		v.logger.Warn("cep lookup failed", zap.String("cep", cep), zap.Error(err))
		return Address{}, fmt.Errorf("cep lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return Address{}, fmt.Errorf("cep lookup: service returned status %d: %s", resp.StatusCode, string(data))
	}

	var body viacepResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Erro {
		return Address{}, ErrCEPNotFound
	}

	v.logger.Debug("cep resolved", zap.String("cep", cep), zap.String("cidade", body.Localidade))
	return Address{
		CEP:    body.CEP,
		Rua:    body.Logradouro,
		Bairro: body.Bairro,
		Cidade: body.Localidade,
	}, nil
}
