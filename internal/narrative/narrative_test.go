package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CaseNarrative(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var facts CaseFacts
		require.NoError(t, json.NewDecoder(r.Body).Decode(&facts))
		assert.Equal(t, "Kim", facts.MurdererName)
		json.NewEncoder(w).Encode(map[string]string{"text": "A grim tale."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	text, err := c.CaseNarrative(context.Background(), CaseFacts{
		MurdererName: "Kim", MeansName: "Poison", EvidenceName: "Letter",
	})
	require.NoError(t, err)
	assert.Equal(t, "A grim tale.", text)
	assert.Equal(t, "/v1/narrative", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClient_EvaluateClue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/clue", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"text": "Look at the knife."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	text, err := c.EvaluateClue(context.Background(), ClueQuestion{Question: "weapon?"})
	require.NoError(t, err)
	assert.Equal(t, "Look at the knife.", text)
}

func TestClient_ErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.CaseNarrative(context.Background(), CaseFacts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_EmptyTextRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.EvaluateClue(context.Background(), ClueQuestion{Question: "?"})
	require.Error(t, err)
}

func TestDisabled_Fallbacks(t *testing.T) {
	d := Disabled{}
	text, err := d.CaseNarrative(context.Background(), CaseFacts{
		MurdererName: "Kim", MeansName: "Poison", EvidenceName: "Letter",
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "Kim") && strings.Contains(text, "Poison"))

	answer, err := d.EvaluateClue(context.Background(), ClueQuestion{Question: "who?"})
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
}
