package aggregates

import (
	"errors"
	"testing"

	domainagg "github.com/yungbote/applyflow-backend/internal/domain/aggregates"
	"github.com/yungbote/applyflow-backend/internal/domain/applications"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_DomainErrors(t *testing.T) {
	err := MapError("op", &applications.InvalidTransitionError{From: applications.StatusHired, To: applications.StatusOffer})
	if !domainagg.IsCode(err, domainagg.CodeInvalidTransition) {
		t.Fatalf("expected invalid_transition code, got %q (%v)", domainagg.CodeOf(err), err)
	}
	var ite *applications.InvalidTransitionError
	if !errors.As(err, &ite) || ite.From != applications.StatusHired {
		t.Fatalf("expected wrapped InvalidTransitionError, got %v", err)
	}

	err = MapError("op", &applications.ValidationError{Field: "comment", Reason: "too long"})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_SQLiteBusyIsRetryable(t *testing.T) {
	err := MapError("op", errors.New("database is locked (5) (SQLITE_BUSY)"))
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_UnknownIsInternal(t *testing.T) {
	err := MapError("op", errors.New("disk on fire"))
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}
