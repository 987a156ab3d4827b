package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/types"
)

const helpText = `👋 <b>PlanWise</b>

Add me to a group and I'll pick up event mentions automatically.
Here in private chat you can use:

/agenda — today's schedule
/clear — wipe today's schedule
/track &lt;topic&gt; — research deadlines for a topic
/briefing — tomorrow's schedule now`

// handleCommand serves the private-chat hub. In a private chat the
// conversation and the owner are the same Telegram user.
func (s *Server) handleCommand(ctx context.Context, msg types.InboundMessage) {
	command, args := splitCommand(msg.Text)

	switch command {
	case "/agenda":
		s.cmdAgenda(ctx, msg.SenderID)
	case "/clear":
		s.cmdClear(ctx, msg)
	case "/track":
		s.cmdTrack(ctx, msg.SenderID, args)
	case "/briefing", "/force_briefing":
		s.cmdBriefing(ctx, msg.SenderID)
	case "/start", "/help":
		s.reply(ctx, msg.SenderID, helpText)
	default:
		// Non-command private text goes through the same pipeline as
		// group messages, so the hub can take dictated events too.
		outcome := s.router.HandleMessage(ctx, msg)
		logger.Info(ctx, "hub message routed to outcome %s", outcome.Kind)
	}
}

func (s *Server) cmdAgenda(ctx context.Context, owner int64) {
	day := s.agenda.Today()
	events, err := s.agenda.ListDay(ctx, owner, day)
	if err != nil {
		logger.Errorf(ctx, "agenda listing failed: %v", err)
		s.reply(ctx, owner, "⚠️ Couldn't load your agenda, please try again.")
		return
	}
	if err := s.notifier.DeliverAgenda(ctx, owner, day, events); err != nil {
		logger.Errorf(ctx, "agenda delivery failed: %v", err)
	}
}

func (s *Server) cmdClear(ctx context.Context, msg types.InboundMessage) {
	day := s.agenda.Today()
	deleted, err := s.agenda.ClearDay(ctx, msg.SenderID, day)
	if err != nil {
		logger.Errorf(ctx, "day clear failed: %v", err)
		s.reply(ctx, msg.SenderID, "⚠️ Couldn't clear your schedule, please try again.")
		return
	}

	// The conversation's anchor may point at a deleted event; drop it so
	// the next message starts fresh.
	if err := s.contexts.Clear(ctx, msg.ConversationID); err != nil {
		logger.Warnf(ctx, "failed to clear conversation anchor: %v", err)
	}

	s.reply(ctx, msg.SenderID, fmt.Sprintf("🗑 Cleared <b>%d</b> event(s) for today.", deleted))
}

func (s *Server) cmdTrack(ctx context.Context, owner int64, topic string) {
	if s.research == nil {
		s.reply(ctx, owner, "🔒 Research mode is not configured on this deployment.")
		return
	}
	if topic == "" {
		s.reply(ctx, owner, "Usage: /track &lt;topic&gt;, e.g. /track CS2103 deadlines")
		return
	}

	s.reply(ctx, owner, fmt.Sprintf("🕵️ Researching <b>%s</b>…", topic))

	report, err := s.research.Track(ctx, owner, topic)
	if err != nil {
		logger.Errorf(ctx, "research for %q failed: %v", topic, err)
		s.reply(ctx, owner, "⚠️ Research failed, please try again later.")
		return
	}
	if err := s.notifier.DeliverTrackReport(ctx, owner, topic, report.Saved, report.Skipped); err != nil {
		logger.Errorf(ctx, "track report delivery failed: %v", err)
	}
}

func (s *Server) cmdBriefing(ctx context.Context, owner int64) {
	if err := s.briefing.ForceBriefing(ctx, owner); err != nil {
		logger.Errorf(ctx, "forced briefing failed: %v", err)
		s.reply(ctx, owner, "⚠️ Couldn't build your briefing, please try again.")
	}
}

func (s *Server) reply(ctx context.Context, destination int64, text string) {
	if err := s.notifier.DeliverText(ctx, destination, text); err != nil {
		logger.Errorf(ctx, "reply delivery failed: %v", err)
	}
}

// splitCommand separates "/track CS2103 deadlines" into the command and
// its argument string. Commands may carry a @botname suffix in groups.
func splitCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	command, args, _ := strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return strings.ToLower(command), strings.TrimSpace(args)
}
