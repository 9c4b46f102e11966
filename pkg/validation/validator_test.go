package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type samplePayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Confirm  string `json:"confirm" binding:"eqfield=Password"`
}

func validate(t *testing.T, p samplePayload) error {
	t.Helper()
	return binding.Validator.ValidateStruct(&p)
}

func TestToDetails(t *testing.T) {
	Init()

	t.Run("field names come from json tags", func(t *testing.T) {
		err := validate(t, samplePayload{Email: "not-an-email", Password: "secret1", Confirm: "secret1"})
		details := ToDetails(err)
		assert.Contains(t, details, "email")
		assert.Equal(t, "must be a valid email", details["email"])
	})

	t.Run("pwd alias enforces minimum length", func(t *testing.T) {
		err := validate(t, samplePayload{Email: "jane@ex.com", Password: "abc", Confirm: "abc"})
		details := ToDetails(err)
		assert.Contains(t, details, "password")
	})

	t.Run("eqfield mismatch", func(t *testing.T) {
		err := validate(t, samplePayload{Email: "jane@ex.com", Password: "secret1", Confirm: "other"})
		details := ToDetails(err)
		assert.Equal(t, "must match Password", details["confirm"])
	})

	t.Run("required fields", func(t *testing.T) {
		err := validate(t, samplePayload{})
		details := ToDetails(err)
		assert.Equal(t, "is required", details["email"])
		assert.Equal(t, "is required", details["password"])
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, ToDetails(nil))
	})

	t.Run("json syntax error", func(t *testing.T) {
		var p samplePayload
		err := json.Unmarshal([]byte(`{"email":`), &p)
		details := ToDetails(err)
		assert.Equal(t, map[string]string{"payload": "invalid json"}, details)
	})

	t.Run("non-validator error", func(t *testing.T) {
		details := ToDetails(errors.New("boom"))
		assert.Equal(t, map[string]string{"payload": "invalid payload"}, details)
	})
}
