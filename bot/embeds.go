package bot

import (
	"fmt"

	"betledger/events"
	"betledger/models"

	"github.com/bwmarrin/discordgo"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
)

func statusColor(status models.BetStatus) int {
	switch status {
	case models.BetStatusWon:
		return ColorSuccess
	case models.BetStatusLost:
		return ColorDanger
	case models.BetStatusCashout:
		return ColorWarning
	default:
		return ColorPrimary
	}
}

func statusTitle(status models.BetStatus) string {
	switch status {
	case models.BetStatusWon:
		return "🎉 **WON** 🎉"
	case models.BetStatusLost:
		return "**LOST**"
	case models.BetStatusVoid:
		return "**VOID** (stake returned)"
	case models.BetStatusCashout:
		return "**CASHED OUT**"
	default:
		return string(status)
	}
}

// buildSettledEmbed creates the embed announcing a settled bet
func buildSettledEmbed(e events.BetSettledEvent) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name: "Bet Details",
			Value: fmt.Sprintf("• Selection: **%s**\n• Stake: **%s** at %s odds",
				e.Selection,
				FormatMoney(e.Stake, e.Currency),
				e.Odds.String(),
			),
			Inline: false,
		},
		{
			Name:   "Profit",
			Value:  FormatSignedMoney(e.Profit, e.Currency),
			Inline: true,
		},
		{
			Name:   "Bankroll",
			Value:  FormatMoney(e.NewBalance, e.Currency),
			Inline: true,
		},
	}

	return &discordgo.MessageEmbed{
		Title:       e.Event,
		Description: statusTitle(e.Status),
		Color:       statusColor(e.Status),
		Fields:      fields,
	}
}

// buildBankrollCreatedEmbed creates the embed announcing a new bankroll
func buildBankrollCreatedEmbed(e events.BankrollCreatedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "New bankroll",
		Description: fmt.Sprintf("**%s** opened with **%s**", e.Name, FormatMoney(e.InitialBalance, e.Currency)),
		Color:       ColorPrimary,
	}
}
