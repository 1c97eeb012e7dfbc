package bot

import (
	"context"
	"fmt"

	"betledger/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds notifier configuration
type Config struct {
	Token     string
	ChannelID string
}

// embedSender is the part of *discordgo.Session the notifier needs
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts ledger activity to a Discord channel
type Notifier struct {
	config  Config
	session *discordgo.Session
	sender  embedSender
}

// New opens a bot session used only for posting messages
func New(config Config) (*Notifier, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	return &Notifier{
		config:  config,
		session: dg,
		sender:  dg,
	}, nil
}

// newNotifier builds a notifier over any sender
func newNotifier(config Config, sender embedSender) *Notifier {
	return &Notifier{
		config: config,
		sender: sender,
	}
}

// Subscribe registers the notifier for the events it announces
func (n *Notifier) Subscribe(eventBus *events.Bus) {
	eventBus.SubscribeOrdered("discord", n.handleEvent, events.EventTypeBetSettled, events.EventTypeBankrollCreated)
	log.WithField("channelId", n.config.ChannelID).Info("Discord notifier subscribed to ledger events")
}

func (n *Notifier) handleEvent(ctx context.Context, event events.Event) {
	var embed *discordgo.MessageEmbed
	switch e := event.(type) {
	case events.BetSettledEvent:
		embed = buildSettledEmbed(e)
	case events.BankrollCreatedEvent:
		embed = buildBankrollCreatedEmbed(e)
	default:
		return
	}

	if _, err := n.sender.ChannelMessageSendEmbed(n.config.ChannelID, embed); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"channelId": n.config.ChannelID,
			"error":     err,
		}).Error("Failed to post ledger notification")
	}
}

func (n *Notifier) Close() error {
	if n.session == nil {
		return nil
	}
	return n.session.Close()
}
