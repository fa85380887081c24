package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLookupFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ws/04538133/json/", r.URL.Path)
		w.Write([]byte(`{"cep":"04538-133","logradouro":"Rua Joaquim Floriano","bairro":"Itaim Bibi","localidade":"São Paulo"}`))
	}))
	defer srv.Close()

	v := NewViaCEP(srv.URL, time.Second, nil)
	addr, err := v.Lookup(context.Background(), "04538133")
	require.NoError(t, err)

	assert.Equal(t, "04538-133", addr.CEP)
	assert.Equal(t, "Rua Joaquim Floriano", addr.Rua)
	assert.Equal(t, "Itaim Bibi", addr.Bairro)
	assert.Equal(t, "São Paulo", addr.Cidade)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ViaCEP reports unknown CEPs as 200 with an erro marker.
		w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	v := NewViaCEP(srv.URL, time.Second, nil)
	_, err := v.Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, ErrCEPNotFound)
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewViaCEP(srv.URL, time.Second, nil)
	_, err := v.Lookup(context.Background(), "04538133")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCEPNotFound)
}

func TestConcurrentLookupsAreDeduped(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Write([]byte(`{"cep":"04538-133","logradouro":"Rua Joaquim Floriano","bairro":"Itaim Bibi","localidade":"São Paulo"}`))
	}))
	defer srv.Close()

	v := NewViaCEP(srv.URL, 5*time.Second, nil)

	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			_, err := v.Lookup(context.Background(), "04538133")
			return err
		})
	}
	// Give the goroutines time to pile up on the singleflight key.
	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), calls.Load())
}

func TestLookupJoinerHonorsOwnContext(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Write([]byte(`{"cep":"04538-133","logradouro":"Rua Joaquim Floriano","bairro":"Itaim Bibi","localidade":"São Paulo"}`))
	}))
	defer srv.Close()

	v := NewViaCEP(srv.URL, 5*time.Second, nil)

	leader := make(chan error, 1)
	go func() {
		_, err := v.Lookup(context.Background(), "04538133")
		leader <- err
	}()
	<-started

	// A second caller joins the in-flight lookup with an already-canceled
	// context and must return immediately instead of waiting it out.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := v.Lookup(ctx, "04538133")
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, <-leader)
}
