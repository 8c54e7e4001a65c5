package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/minaorangina/durak/game"
	"github.com/minaorangina/durak/protocol"
	"github.com/pterm/pterm"
)

// A hot-seat game: everyone shares one terminal and passes it round.
func main() {
	players := askPlayers()

	d, err := game.New(players, game.Opts{})
	if err != nil {
		pterm.Error.Printfln("Could not deal a new game: %v", err)
		os.Exit(1)
	}

	for d.Status() == game.Playing {
		actor := nextActor(d)
		printTable(d, actor.PlayerID)

		res, err := takeTurn(d, actor)
		if err != nil {
			pterm.Error.Printfln("%s: %v", game.KindName(err), err)
			continue
		}
		pterm.Success.Println(res.Message)
	}

	printTable(d, "")
	pterm.Info.Println("Thank you for playing...")
}

func askPlayers() []protocol.Player {
	counts := []string{"2", "3", "4"}
	choice, _ := pterm.DefaultInteractiveSelect.WithDefaultText("How many players?").WithOptions(counts).Show()
	n, _ := strconv.Atoi(choice)

	players := []protocol.Player{}
	taken := map[string]bool{}
	for i := 1; i <= n; i++ {
		name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText(fmt.Sprintf("Name of player %d", i)).Show()
		name = strings.TrimSpace(name)
		if name == "" || taken[name] {
			name = fmt.Sprintf("Player %d", i)
		}
		taken[name] = true
		players = append(players, protocol.Player{PlayerID: strconv.Itoa(i), Name: name})
	}
	return players
}

// nextActor asks who is at the keyboard: the defender while cards are
// unbeaten, otherwise any player may throw in or end the round.
func nextActor(d *game.Durak) protocol.Player {
	players := d.Players()
	names := []string{}
	for _, p := range players {
		names = append(names, p.Name)
	}
	def := d.Attacker().Name
	for _, s := range d.Table() {
		if s.Defense == nil {
			def = d.Defender().Name
			break
		}
	}

	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Who is playing?").
		WithOptions(names).
		WithDefaultOption(def).
		Show()
	for _, p := range players {
		if p.Name == choice {
			return p
		}
	}
	return players[0]
}

func takeTurn(d *game.Durak, actor protocol.Player) (game.Result, error) {
	options := []string{"attack", "defend", "take", "bito"}
	action, _ := pterm.DefaultInteractiveSelect.WithDefaultText(actor.Name + ", what now?").WithOptions(options).Show()

	hand := d.Hand(actor.PlayerID)
	cards := []string{}
	for i, c := range hand {
		cards = append(cards, fmt.Sprintf("%d: %s", i, c))
	}

	switch action {
	case "attack":
		picked, _ := pterm.DefaultInteractiveMultiselect.WithDefaultText("Cards to play").WithOptions(cards).Show()
		return d.Attack(actor.PlayerID, indices(picked))
	case "defend":
		slots := []string{}
		for i, s := range d.Table() {
			if s.Defense == nil {
				slots = append(slots, fmt.Sprintf("%d: %s", i, s.Attack))
			}
		}
		if len(slots) == 0 || len(cards) == 0 {
			return d.Defend(actor.PlayerID, -1, -1)
		}
		slot, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Card to beat").WithOptions(slots).Show()
		card, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Beat it with").WithOptions(cards).Show()
		return d.Defend(actor.PlayerID, indices([]string{slot})[0], indices([]string{card})[0])
	case "take":
		return d.Take(actor.PlayerID)
	}
	return d.PassOrBito(actor.PlayerID)
}

// indices reads the leading "N:" of each option
func indices(options []string) []int {
	out := []int{}
	for _, o := range options {
		n, err := strconv.Atoi(strings.SplitN(o, ":", 2)[0])
		if err == nil {
			out = append(out, n)
		}
	}
	return out
}

func printTable(d *game.Durak, viewerID string) {
	view := d.View(viewerID)

	table := []string{}
	for _, s := range view.Table {
		line := s.Attack.ID
		if s.Defense != nil {
			line += "  <  " + s.Defense.ID
		}
		table = append(table, line)
	}
	if len(table) == 0 {
		table = append(table, "(empty)")
	}

	header := fmt.Sprintf("Trump: %s   Deck: %d   %s attacks %s",
		pterm.LightYellow(view.TrumpSuit), view.DeckCount,
		pterm.LightCyan(view.AttackerName), pterm.LightCyan(view.DefenderName))
	pterm.DefaultBox.WithTitle(pterm.LightGreen("|TABLE|")).WithTitleTopCenter().Println(header + "\n\n" + strings.Join(table, "\n"))

	for _, p := range view.Players {
		hand := []string{}
		for _, c := range p.Cards {
			hand = append(hand, c.ID)
		}
		if len(hand) == 0 {
			pterm.Info.Printfln("%s holds %d cards", p.Name, p.CardCount)
			continue
		}
		pterm.Info.Printfln("%s: %s", p.Name, strings.Join(hand, ", "))
	}

	if view.Outcome != nil && view.Outcome.GameOver {
		if view.Outcome.IsDraw {
			pterm.Success.Println("It's a draw!")
			return
		}
		for _, p := range view.Players {
			if p.PlayerID == view.Outcome.Loser {
				pterm.Error.Printfln("%s is the durak!", p.Name)
			}
		}
	}
}
