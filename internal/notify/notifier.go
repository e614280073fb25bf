package notify

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"cammanager/internal/config"
	"cammanager/internal/logger"

	nfy "github.com/nikoksr/notify"
	nfyhttp "github.com/nikoksr/notify/service/http"
	nfyslack "github.com/nikoksr/notify/service/slack"
	nfytg "github.com/nikoksr/notify/service/telegram"
)

// Manager wraps nikoksr/notify.Notify and manages channel lifecycle.
// Channels come from the static config file; Reload rebuilds them after
// a config change.
type Manager struct {
	mu           sync.RWMutex
	notifier     *nfy.Notify
	channelNames []string
}

func NewManager(cfg config.NotifyConfig) *Manager {
	m := &Manager{notifier: nfy.New()}
	m.Reload(cfg)
	return m
}

// Reload rebuilds all channels from config, dropping the old services.
func (m *Manager) Reload(cfg config.NotifyConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := nfy.New()
	var names []string

	if !cfg.Enabled {
		m.notifier = n
		m.channelNames = nil
		return
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		tgSvc, err := nfytg.New(cfg.TelegramToken)
		if err == nil {
			if id, err := strconv.ParseInt(strings.TrimSpace(cfg.TelegramChatID), 10, 64); err == nil {
				tgSvc.AddReceivers(id)
				n.UseServices(tgSvc)
				names = append(names, "telegram")
			} else {
				logger.Notify.Warn().Str("chat_id", cfg.TelegramChatID).Msg("invalid Telegram chat ID")
			}
		} else {
			logger.Notify.Warn().Err(err).Msg("Telegram service init failed")
		}
	}

	if cfg.SlackToken != "" && cfg.SlackChannelID != "" {
		slackSvc := nfyslack.New(cfg.SlackToken)
		slackSvc.AddReceivers(strings.TrimSpace(cfg.SlackChannelID))
		n.UseServices(slackSvc)
		names = append(names, "slack")
	}

	if cfg.WebhookURL != "" {
		httpSvc := nfyhttp.New()
		httpSvc.AddReceivers(&nfyhttp.Webhook{
			URL:         cfg.WebhookURL,
			ContentType: "text/plain; charset=utf-8",
			Method:      "POST",
			BuildPayload: func(subject, message string) (payload any) {
				return subject + "\n" + message
			},
		})
		n.UseServices(httpSvc)
		names = append(names, "webhook")
	}

	m.notifier = n
	m.channelNames = names

	logger.Notify.Info().Int("channels", len(names)).Strs("names", names).Msg("notification channels loaded")
}

// Send dispatches a message to all configured channels. Delivery is
// best-effort: failures are logged, never surfaced to the caller.
func (m *Manager) Send(subject, message string) {
	m.mu.RLock()
	n := m.notifier
	active := len(m.channelNames) > 0
	m.mu.RUnlock()

	if n == nil || !active {
		return
	}
	go func() {
		if err := n.Send(context.Background(), subject, message); err != nil {
			logger.Notify.Warn().Err(err).Msg("notification send failed")
		}
	}()
}

// HasChannels returns true if at least one channel is configured.
func (m *Manager) HasChannels() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.channelNames) > 0
}

// ChannelNames returns the names of all configured channels.
func (m *Manager) ChannelNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]string, len(m.channelNames))
	copy(result, m.channelNames)
	return result
}
