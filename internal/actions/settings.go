package actions

import (
	"context"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/querycache"
	"github.com/msquare-market/admin/internal/validate"
)

type SettingsAPI interface {
	UpdateBankAccountAmount(ctx context.Context, amount domain.BankAccountAmount) error
	UpdateNotificationSetting(ctx context.Context, setting domain.NotificationSetting) error
	UpdateTimeSetting(ctx context.Context, setting domain.TimeSetting) error
	CreateToken(ctx context.Context, req clients.TokenRequest) (domain.Token, error)
}

// Settings edits platform configuration and the token list.
type Settings struct {
	flow *Flow
	api  SettingsAPI
}

func NewSettings(flow *Flow, api SettingsAPI) *Settings {
	return &Settings{flow: flow, api: api}
}

// UpdateBankAccountAmount requires at least one of fee and usdtCharge.
func (s *Settings) UpdateBankAccountAmount(ctx context.Context, fee, usdtCharge string) error {
	return s.flow.Run(ctx, Action{
		Name:        "update bank account amount",
		Invalidates: []string{querycache.BankAccountAmount},
		Success:     notify.MsgSaved,
		Submit: func(ctx context.Context) error {
			amount, err := validate.BankAccountAmount(fee, usdtCharge)
			if err != nil {
				return err
			}
			return s.api.UpdateBankAccountAmount(ctx, amount)
		},
	})
}

func (s *Settings) UpdateNotification(ctx context.Context, setting domain.NotificationSetting) error {
	return s.flow.Run(ctx, Action{
		Name:        "update notification setting",
		Invalidates: []string{querycache.NotificationSets},
		Success:     notify.MsgSaved,
		Submit: func(ctx context.Context) error {
			if strings.TrimSpace(setting.Event) == "" {
				return validate.Errors{"event": "this field is required"}
			}
			return s.api.UpdateNotificationSetting(ctx, setting)
		},
	})
}

// UpdateTime expects HH:MM times and an IANA timezone.
func (s *Settings) UpdateTime(ctx context.Context, setting domain.TimeSetting) error {
	return s.flow.Run(ctx, Action{
		Name:        "update time setting",
		Invalidates: []string{querycache.TimeSettings},
		Success:     notify.MsgSaved,
		Submit: func(ctx context.Context) error {
			if err := checkTimeSetting(setting); err != nil {
				return err
			}
			return s.api.UpdateTimeSetting(ctx, setting)
		},
	})
}

func checkTimeSetting(setting domain.TimeSetting) error {
	errs := validate.Errors{}
	if setting.Name == "" {
		errs["name"] = "this field is required"
	}
	if _, err := time.Parse("15:04", setting.StartTime); err != nil {
		errs["start_time"] = "must be HH:MM"
	}
	if _, err := time.Parse("15:04", setting.EndTime); err != nil {
		errs["end_time"] = "must be HH:MM"
	}
	if setting.Timezone != "" {
		if _, err := time.LoadLocation(setting.Timezone); err != nil {
			errs["timezone"] = "unknown timezone"
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateToken lists a new reward token.
func (s *Settings) CreateToken(ctx context.Context, form validate.TokenForm) (domain.Token, error) {
	var token domain.Token
	err := s.flow.Run(ctx, Action{
		Name:        "create token",
		Invalidates: []string{querycache.Tokens},
		Success:     notify.MsgSaved,
		Submit: func(ctx context.Context) error {
			req, err := form.Validate()
			if err != nil {
				return err
			}
			token, err = s.api.CreateToken(ctx, req)
			return err
		},
	})
	return token, err
}
