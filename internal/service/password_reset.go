package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/evaselfe/entrepedia-7/internal/config"
	"github.com/evaselfe/entrepedia-7/internal/domain"
	"github.com/evaselfe/entrepedia-7/internal/notify"
	"github.com/evaselfe/entrepedia-7/internal/repository"
)

var tracer = otel.Tracer("github.com/evaselfe/entrepedia-7/internal/service")

var mobileRe = regexp.MustCompile(`^[0-9]{10}$`)

// PasswordResetService drives the mobile-number + OTP reset flow. The three
// actions are stateless with respect to each other: reset re-validates the
// code on its own and never relies on a prior verify call.
type PasswordResetService struct {
	otps       repository.OTPRepository
	creds      repository.CredentialRepository
	sessions   repository.SessionRepository
	dispatcher notify.SMSDispatcher
	cfg        config.Config
	logger     *zap.Logger
}

func NewPasswordResetService(
	otps repository.OTPRepository,
	creds repository.CredentialRepository,
	sessions repository.SessionRepository,
	dispatcher notify.SMSDispatcher,
	cfg config.Config,
	logger *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		otps:       otps,
		creds:      creds,
		sessions:   sessions,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// OTPRequestResult reports a successful request_otp. DebugOTP is populated
// only in development; everywhere else the code leaves through the
// SMS dispatcher alone.
type OTPRequestResult struct {
	DebugOTP string
}

// RequestOTP issues a fresh code for the mobile number, replacing any code
// issued earlier. At most one live OTP row exists per number.
func (s *PasswordResetService) RequestOTP(ctx context.Context, mobile string) (*OTPRequestResult, error) {
	ctx, span := tracer.Start(ctx, "PasswordResetService.RequestOTP")
	defer span.End()

	if !mobileRe.MatchString(mobile) {
		return nil, newAPIError("invalid_mobile", "Mobile number must be exactly 10 digits.", http.StatusBadRequest)
	}

	if _, err := s.creds.GetByMobile(ctx, mobile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, newAPIError("not_found", "No account matches this mobile number.", http.StatusNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("lookup credentials: %w", err)
	}

	if err := s.otps.DeleteByMobile(ctx, mobile); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("clear previous otps: %w", err)
	}

	code, err := generateCode(s.cfg.OTPLength)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	otp := domain.PasswordResetOTP{
		MobileNumber: mobile,
		Code:         code,
		ExpiresAt:    time.Now().Add(s.cfg.OTPTTL),
	}
	if _, err := s.otps.Create(ctx, otp); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("store otp: %w", err)
	}

	// Delivery is best-effort; the code stays valid even if dispatch fails
	// and the caller may resubmit the request.
	if err := s.dispatcher.SendOTP(ctx, mobile, code); err != nil {
		s.logger.Warn("otp dispatch failed", zap.String("mobile_number", mobile), zap.Error(err))
	}

	s.audit("password_reset.otp_request", "mobile_number", mobile)

	result := &OTPRequestResult{}
	if s.cfg.DebugOTPEnabled() {
		result.DebugOTP = code
	}
	return result, nil
}

// VerifyOTP checks the code without consuming it. A verified code stays
// valid until reset_password uses it or it expires.
func (s *PasswordResetService) VerifyOTP(ctx context.Context, mobile, code string) error {
	ctx, span := tracer.Start(ctx, "PasswordResetService.VerifyOTP")
	defer span.End()

	if !mobileRe.MatchString(mobile) {
		return newAPIError("invalid_mobile", "Mobile number must be exactly 10 digits.", http.StatusBadRequest)
	}

	if _, err := s.lookupLiveOTP(ctx, mobile, code); err != nil {
		span.RecordError(err)
		return err
	}

	s.audit("password_reset.otp_verified", "mobile_number", mobile)
	return nil
}

// ResetPassword re-validates the code, replaces the credential hash, marks
// the code used, and deactivates every session of the user. The statements
// are independent; there is no transaction spanning them.
func (s *PasswordResetService) ResetPassword(ctx context.Context, mobile, code, newPassword string) error {
	ctx, span := tracer.Start(ctx, "PasswordResetService.ResetPassword")
	defer span.End()

	if !mobileRe.MatchString(mobile) {
		return newAPIError("invalid_mobile", "Mobile number must be exactly 10 digits.", http.StatusBadRequest)
	}
	if len(newPassword) < s.cfg.PasswordMinLength {
		return newAPIError("weak_password",
			fmt.Sprintf("Password must be at least %d characters.", s.cfg.PasswordMinLength),
			http.StatusBadRequest)
	}

	otp, err := s.lookupLiveOTP(ctx, mobile, code)
	if err != nil {
		span.RecordError(err)
		return err
	}

	creds, err := s.creds.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return newAPIError("not_found", "No account matches this mobile number.", http.StatusNotFound)
		}
		span.RecordError(err)
		return fmt.Errorf("lookup credentials: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.creds.UpdatePasswordHash(ctx, creds.UserID, string(hashed)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.otps.MarkUsed(ctx, otp.ID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("mark otp used: %w", err)
	}

	if err := s.sessions.DeactivateAllForUser(ctx, creds.UserID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("deactivate sessions: %w", err)
	}

	s.audit("password_reset.completed", "mobile_number", mobile, "user_id", creds.UserID.String())
	return nil
}

func (s *PasswordResetService) lookupLiveOTP(ctx context.Context, mobile, code string) (domain.PasswordResetOTP, error) {
	otp, err := s.otps.GetLive(ctx, mobile, code, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PasswordResetOTP{}, newAPIError("invalid_otp", "Code is invalid or has expired.", http.StatusBadRequest)
		}
		return domain.PasswordResetOTP{}, fmt.Errorf("lookup otp: %w", err)
	}
	return otp, nil
}

func (s *PasswordResetService) audit(event string, kv ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Sugar().Infow("audit: "+event, kv...)
}

func generateCode(length int) (string, error) {
	bound := big.NewInt(1)
	for i := 0; i < length; i++ {
		bound.Mul(bound, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
