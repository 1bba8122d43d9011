package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignUpInput(t *testing.T) {
	valid := SignUpInput{Username: "alice_01", Email: "alice@example.com", Password: "password123"}
	require.NoError(t, ValidateStruct(valid))

	cases := []struct {
		name  string
		input SignUpInput
		want  string
	}{
		{
			name:  "username too short",
			input: SignUpInput{Username: "a", Email: "a@example.com", Password: "password123"},
			want:  "at least 2 characters",
		},
		{
			name:  "username too long",
			input: SignUpInput{Username: strings.Repeat("a", 21), Email: "a@example.com", Password: "password123"},
			want:  "no more than 20 characters",
		},
		{
			name:  "username with special characters",
			input: SignUpInput{Username: "ali ce!", Email: "a@example.com", Password: "password123"},
			want:  "must not contain special characters",
		},
		{
			name:  "bad email",
			input: SignUpInput{Username: "alice", Email: "not-an-email", Password: "password123"},
			want:  "valid email address",
		},
		{
			name:  "short password",
			input: SignUpInput{Username: "alice", Email: "a@example.com", Password: "123"},
			want:  "at least 6 characters",
		},
		{
			name:  "missing everything",
			input: SignUpInput{},
			want:  "username is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.input)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestUsernameQuery(t *testing.T) {
	require.NoError(t, ValidateStruct(UsernameQuery{Username: "valid_name"}))
	require.Error(t, ValidateStruct(UsernameQuery{Username: ""}))
	require.Error(t, ValidateStruct(UsernameQuery{Username: "has space"}))
	require.Error(t, ValidateStruct(UsernameQuery{Username: "x"}))
}
