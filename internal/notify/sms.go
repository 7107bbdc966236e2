package notify

import (
	"context"

	"go.uber.org/zap"
)

// SMSDispatcher delivers a one-time code to a mobile number. The production
// deployment plugs an SMS gateway in here.
type SMSDispatcher interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

// LogDispatcher writes the dispatch to the log instead of sending anything.
// It is the default outside environments with a configured gateway.
type LogDispatcher struct {
	logger *zap.Logger
}

var _ SMSDispatcher = (*LogDispatcher)(nil)

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) SendOTP(ctx context.Context, mobile, code string) error {
	d.logger.Info("otp dispatch",
		zap.String("mobile_number", mobile),
		zap.Int("code_length", len(code)),
	)
	return nil
}
