package models

import (
	"github.com/cockroachdb/errors"
)

type PlatformKind string

const (
	PlatformWhatsApp PlatformKind = "whatsapp"
	PlatformTelegram PlatformKind = "telegram"
	PlatformVoice    PlatformKind = "voice"
	PlatformUnknown  PlatformKind = "unknown"
)

func PlatformKindFromString(s string) PlatformKind {
	switch PlatformKind(s) {
	case PlatformWhatsApp, PlatformTelegram, PlatformVoice:
		return PlatformKind(s)
	}
	return PlatformUnknown
}

type WhatsAppConfig struct {
	WebhookUrl  string
	PhoneNumber string
}

type TelegramConfig struct {
	BotToken string
	ChatId   string
}

type VoiceConfig struct {
	ProviderSid string
	CallerId    string
}

// PlatformConfig is a variant over the platforms the simulator knows how to
// drive. Unknown platforms keep their raw config so that agents created for
// a platform we do not validate yet are not rejected.
type PlatformConfig struct {
	Kind     PlatformKind
	WhatsApp *WhatsAppConfig
	Telegram *TelegramConfig
	Voice    *VoiceConfig
	Raw      map[string]any
}

func NewPlatformConfig(platform string, raw map[string]any) (PlatformConfig, error) {
	kind := PlatformKindFromString(platform)
	cfg := PlatformConfig{Kind: kind, Raw: raw}

	str := func(key string) string {
		v, _ := raw[key].(string)
		return v
	}

	switch kind {
	case PlatformWhatsApp:
		wa := WhatsAppConfig{
			WebhookUrl:  str("webhook_url"),
			PhoneNumber: str("phone_number"),
		}
		if wa.WebhookUrl == "" {
			return cfg, errors.Wrap(BadParameterError, "whatsapp platform_config requires webhook_url")
		}
		cfg.WhatsApp = &wa
	case PlatformTelegram:
		tg := TelegramConfig{
			BotToken: str("bot_token"),
			ChatId:   str("chat_id"),
		}
		if tg.BotToken == "" {
			return cfg, errors.Wrap(BadParameterError, "telegram platform_config requires bot_token")
		}
		cfg.Telegram = &tg
	case PlatformVoice:
		cfg.Voice = &VoiceConfig{
			ProviderSid: str("provider_sid"),
			CallerId:    str("caller_id"),
		}
	}
	return cfg, nil
}
