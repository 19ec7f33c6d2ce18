package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportError は HTTP レスポンスを得られないまま送信が終了したことを表します。
// Error() は原因の文字列を含みません。原因の *url.Error はリクエスト URL
// （クエリの API キーを含む）を保持するため、Unwrap でのみ参照できます。
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	switch {
	case e.Canceled():
		return "request canceled"
	case e.Timeout():
		return fmt.Sprintf("request timeout after %d attempt(s)", e.Attempts)
	default:
		return fmt.Sprintf("network error after %d attempt(s)", e.Attempts)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout は期限切れによる終了かどうかを返します。
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Canceled は呼び出し元のキャンセルによる終了かどうかを返します。
func (e *TransportError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}
