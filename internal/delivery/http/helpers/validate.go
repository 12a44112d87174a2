package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Request bodies are small JSON documents; anything bigger is abuse.
const maxRequestBody = 1 << 20

// Validator is implemented by request DTOs. Validate returns one message
// per problem; an empty slice means the request is well formed.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate fills dest from the JSON request body and runs its
// Validate method when it has one. Unknown fields, trailing garbage, and
// validation failures all produce a 400 response; the caller must stop
// handling the request when false comes back.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if dec.More() {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body: unexpected trailing data")
		return false
	}
	if v, ok := dest.(Validator); ok {
		if msgs := v.Validate(); len(msgs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(msgs, "; "))
			return false
		}
	}
	return true
}
