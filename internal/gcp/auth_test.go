package gcp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func staticFinder(project string) CredentialsFinder {
	return func(_ context.Context, _ ...string) (*google.Credentials, error) {
		return &google.Credentials{
			ProjectID:   project,
			TokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}),
		}, nil
	}
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestProjectPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		env      map[string]string
		adc      string
		want     string
		wantErr  error
	}{
		{"explicit wins over env", "p1", map[string]string{ProjectEnvVar: "p2"}, "p3", "p1", nil},
		{"env when no explicit", "", map[string]string{ProjectEnvVar: "p2"}, "p3", "p2", nil},
		{"legacy env var", "", map[string]string{LegacyProjectEnvVar: "legacy"}, "p3", "legacy", nil},
		{
			"primary env beats legacy", "",
			map[string]string{ProjectEnvVar: "primary", LegacyProjectEnvVar: "legacy"}, "", "primary", nil,
		},
		{"credential project last", "", nil, "p3", "p3", nil},
		{"nothing anywhere", "", nil, "", "", ErrMissingProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(WithCredentialsFinder(staticFinder(tt.adc)), WithGetenv(envMap(tt.env)))
			id, err := r.Identity(context.Background(), []string{ScopeCloudPlatformReadOnly})
			require.NoError(t, err)
			got, err := r.EffectiveProject(id, tt.explicit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissingProjectMessageIsActionable(t *testing.T) {
	assert.Contains(t, ErrMissingProject.Error(), ProjectEnvVar)
	assert.Contains(t, ErrMissingProject.Error(), LegacyProjectEnvVar)
}

func TestIdentityAuthFailure(t *testing.T) {
	r := NewResolver(WithCredentialsFinder(func(context.Context, ...string) (*google.Credentials, error) {
		return nil, errors.New("could not find default credentials")
	}))

	_, err := r.Identity(context.Background(), []string{ScopeStorageReadOnly})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthResolution)
	assert.Contains(t, err.Error(), "could not find default credentials")
}

func TestIdentityScopesAreCopied(t *testing.T) {
	var gotScopes []string
	r := NewResolver(WithCredentialsFinder(func(_ context.Context, scopes ...string) (*google.Credentials, error) {
		gotScopes = scopes
		return &google.Credentials{ProjectID: "p"}, nil
	}))

	scopes := []string{ScopePubSub}
	id, err := r.Identity(context.Background(), scopes)
	require.NoError(t, err)
	scopes[0] = "mutated"

	assert.Equal(t, []string{ScopePubSub}, id.Scopes)
	assert.Equal(t, "p", id.ProjectID)
	assert.Len(t, gotScopes, 1)
}

func TestIdentityClientOptions(t *testing.T) {
	t.Run("credentials by default", func(t *testing.T) {
		r := NewResolver(WithCredentialsFinder(staticFinder("p")))
		id, err := r.Identity(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, id.ClientOptions(), 1)
	})

	t.Run("http client and endpoint override", func(t *testing.T) {
		c := &http.Client{}
		r := NewResolver(
			WithCredentialsFinder(staticFinder("p")),
			WithHTTPClient(c),
			WithEndpoint("http://127.0.0.1:1/"),
		)
		id, err := r.Identity(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, id.ClientOptions(), 2)

		hc, err := id.HTTPClient(context.Background())
		require.NoError(t, err)
		assert.Same(t, c, hc)
	})
}

func TestIdentityHasToken(t *testing.T) {
	r := NewResolver(WithCredentialsFinder(staticFinder("p")))
	id, err := r.Identity(context.Background(), nil)
	require.NoError(t, err)

	ok, err := id.HasToken()
	require.NoError(t, err)
	assert.True(t, ok)

	empty := &Identity{}
	ok, err = empty.HasToken()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEffectiveProject(t *testing.T) {
	r := NewResolver(WithGetenv(envMap(map[string]string{LegacyProjectEnvVar: "legacy"})))

	p, err := r.EffectiveProject(&Identity{ProjectID: "adc"}, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p)

	p, err = r.EffectiveProject(&Identity{ProjectID: "adc"}, "")
	require.NoError(t, err)
	assert.Equal(t, "legacy", p)

	bare := NewResolver(WithGetenv(envMap(nil)))
	p, err = bare.EffectiveProject(&Identity{ProjectID: "adc"}, "")
	require.NoError(t, err)
	assert.Equal(t, "adc", p)

	_, err = bare.EffectiveProject(&Identity{}, "")
	assert.ErrorIs(t, err, ErrMissingProject)
	_, err = bare.EffectiveProject(nil, "")
	assert.ErrorIs(t, err, ErrMissingProject)
}
