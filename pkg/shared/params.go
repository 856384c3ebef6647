package shared

import (
	"net/http"

	"github.com/go-playground/form"
	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var Decoder = form.NewDecoder()

func init() {
	Decoder.SetTagName("form")
}

// ParseUUID extracts the {id} route variable as a UUID.
func ParseUUID(r *http.Request) (uuid.UUID, error) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return uuid.Nil, gerrors.New("missing id route variable")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, gerrors.Wrapf(err, "invalid id %q", raw)
	}
	return id, nil
}
