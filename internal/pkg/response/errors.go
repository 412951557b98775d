package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/studykit/core/internal/database"
	"github.com/studykit/core/internal/llm"
	"github.com/studykit/core/internal/transform"
)

// FromError writes the HTTP response for a domain error:
//
//	transient generation failure  -> 503 with a wait-and-retry message
//	terminal generation failure   -> 502
//	incomplete artifact           -> 502
//	invalid target format         -> 400
//	persistence failure           -> 500
//
// Anything unrecognized falls through to 500.
func FromError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var genErr *llm.GenerationError
	if errors.As(err, &genErr) {
		if genErr.Transient {
			ServiceUnavailable(c, OverloadedMessage)
			return
		}
		BadGateway(c, genErr.Message)
		return
	}

	var incomplete *llm.IncompleteArtifactError
	if errors.As(err, &incomplete) {
		BadGateway(c, incomplete.Error())
		return
	}

	if errors.Is(err, transform.ErrInvalidFormat) {
		BadRequest(c, err.Error())
		return
	}
	if errors.Is(err, transform.ErrSessionNotFound) {
		NotFoundMsg(c, err.Error())
		return
	}
	if errors.Is(err, transform.ErrNoNotes) {
		BadRequest(c, err.Error())
		return
	}

	var persistErr *database.PersistenceError
	if errors.As(err, &persistErr) {
		InternalError(c, persistErr)
		return
	}

	InternalError(c, err)
}
