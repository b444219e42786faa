package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name      string
		requester *uuid.UUID
		owner     *uuid.UUID
		isAdmin   bool
		want      bool
	}{
		{"owner", &owner, &owner, false, true},
		{"other user", &other, &owner, false, false},
		{"anonymous", nil, &owner, false, false},
		{"admin on someone else", &other, &owner, true, true},
		{"admin on orphan", &other, nil, true, true},
		{"user on orphan", &owner, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(tt.requester, tt.owner, tt.isAdmin))
		})
	}
}
