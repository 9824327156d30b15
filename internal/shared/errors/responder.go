package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder resolves errors through mappers and writes them as
// problem documents.
type ChainedResponder struct {
	BaseURI string
	mode    Mode
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(baseURI string, mode Mode, mappers ...ErrorMapper) *ChainedResponder {
	if mode == "" {
		mode = ModeStrict
	}
	return &ChainedResponder{BaseURI: baseURI, mode: mode, mappers: mappers}
}

// AddMapper adds an error mapper to the chain.
func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

func (r *ChainedResponder) Mode() Mode {
	return r.mode
}

// Resolve turns err into the problem that should be shown. Legacy mode skips
// the mappers so every failure is a server fault.
func (r *ChainedResponder) Resolve(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) && r.mode == ModeStrict {
		return problem
	}
	if r.mode == ModeStrict {
		for _, mapper := range r.mappers {
			if problem, ok := mapper(err); ok {
				return problem
			}
		}
	}
	return ErrInternal.WithDetail("An unexpected error occurred.")
}

// Respond sends a ProblemDetail response with proper content type.
func (r *ChainedResponder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError resolves and writes err.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.Resolve(err))
}

// Is builds a mapper that matches any of targets via errors.Is.
func Is(problem ProblemDetail, targets ...error) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		for _, target := range targets {
			if errors.Is(err, target) {
				return problem.WithDetail(err.Error()), true
			}
		}
		return ProblemDetail{}, false
	}
}

// HTTPStatusFromError extracts HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
