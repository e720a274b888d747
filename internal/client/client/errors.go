package client

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cryptopass/internal/common"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		if st.Message() == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return common.ErrorUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrRemoteUnavailable, st.Message())
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.FailedPrecondition:
		switch st.Message() {
		case common.ErrShareExpired.Error():
			return common.ErrShareExpired
		case common.ErrShareFinal.Error():
			return common.ErrShareFinal
		}
		return fmt.Errorf("rpc error: %w", err)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
