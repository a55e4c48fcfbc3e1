package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"certificados/pkg/config"
)

func TestFileID(t *testing.T) {
	cases := []struct {
		name   string
		link   string
		wantID string
		wantOK bool
	}{
		{"view link", "https://drive.google.com/file/d/ABC123/view", "ABC123", true},
		{"share link with params", "https://drive.google.com/file/d/a-B_9/view?usp=sharing", "a-B_9", true},
		{"empty", "", "", false},
		{"foreign host", "https://example.com/file/d/ABC123/view", "", false},
		{"no id segment", "https://drive.google.com/drive/folders/xyz", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := FileID(tc.link)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
		})
	}
}

func TestOutcomeSucceeded(t *testing.T) {
	assert.True(t, OutcomeDeleted.Succeeded())
	assert.True(t, OutcomeEjected.Succeeded())
	assert.True(t, OutcomeOrphaned.Succeeded())
	assert.False(t, OutcomeUnavailable.Succeeded())
	assert.False(t, OutcomeFailed.Succeeded())
}

func TestClientWithoutCredential(t *testing.T) {
	client := NewClient(config.DriveConfig{CredentialsFile: "does-not-exist.json"}, nil)

	// A good link against a credential-less client is unavailable, not failed.
	assert.Equal(t, OutcomeUnavailable, client.Remove(context.Background(), "https://drive.google.com/file/d/ABC123/view"))

	// Bad links never reach the credential check or the network.
	assert.Equal(t, OutcomeFailed, client.Remove(context.Background(), ""))
	assert.Equal(t, OutcomeFailed, client.Remove(context.Background(), "https://example.com/file/d/ABC123/view"))
}

func TestClientRejectsMalformedCredential(t *testing.T) {
	client := NewClient(config.DriveConfig{CredentialsJSON: "{not json"}, nil)
	assert.Equal(t, OutcomeUnavailable, client.Remove(context.Background(), "https://drive.google.com/file/d/ABC123/view"))
}
