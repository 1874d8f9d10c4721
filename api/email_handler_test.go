package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipientDisplayName(t *testing.T) {
	assert.Equal(t, "priya", recipientDisplayName("priya@example.org"))
	assert.Equal(t, "", recipientDisplayName("@example.org"))
	assert.Equal(t, "", recipientDisplayName("not-an-address"))
}
