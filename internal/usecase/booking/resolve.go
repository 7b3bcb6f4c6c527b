package booking

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/jglobal-bizschool/coaching-api/internal/domain/booking"
	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
)

// Chains are at most two deep under the single-reschedule rule; the cap
// only guards against a corrupted cycle in the data.
const maxChainDepth = 8

func validateToken(token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return httperr.ErrBusiness(httperr.CodeInvalidToken)
	}
	return nil
}

// resolveByToken finds the booking a token refers to and walks the
// reschedule chain forward to the newest row. Old tokens stay valid and
// transparently redirect to the active booking.
func resolveByToken(
	ctx context.Context,
	repo domain.Repository,
	token string,
	confirmedOnly bool,
) (*models.Booking, bool, error) {

	if err := validateToken(token); err != nil {
		return nil, false, err
	}

	b, err := repo.FindByToken(ctx, token)
	if err != nil {
		return nil, false, err
	}
	if b == nil {
		return nil, false, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	redirected := false

	for depth := 0; depth < maxChainDepth; depth++ {
		var child *models.Booking
		if confirmedOnly {
			child, err = repo.FindLatestConfirmedDescendant(ctx, b.ID)
		} else {
			child, err = repo.FindLatestDescendant(ctx, b.ID)
		}
		if err != nil {
			return nil, false, err
		}
		if child == nil || child.ID == b.ID {
			break
		}

		b = child
		redirected = true
	}

	return b, redirected, nil
}
