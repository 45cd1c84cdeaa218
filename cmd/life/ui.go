package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func renderJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", v)
		return
	}
	fmt.Println(string(raw))
}

func renderGameList(out map[string]any) {
	games, _ := out["games"].([]any)
	if len(games) == 0 {
		printInfo("No saved games.")
		return
	}
	accent.Println("Saved games")
	fmt.Printf("%-38s %-14s %6s  %s\n", "ID", "PLAYER", "TURN", "STATUS")
	for _, g := range games {
		m, ok := g.(map[string]any)
		if !ok {
			continue
		}
		status := str(m["status"])
		line := fmt.Sprintf("%-38v %-14v %6v  %v", m["id"], m["player_name"], num(m["turn"]), status)
		if status == "ended" {
			danger.Println(line)
		} else {
			fmt.Println(line)
		}
	}
}

func renderStatus(out map[string]any) {
	state, _ := out["state"].(map[string]any)
	if state == nil {
		renderJSON(out)
		return
	}
	player, _ := state["player"].(map[string]any)
	life, _ := player["life"].(map[string]any)

	accent.Printf("Turn %v, %v (Q%v)\n", num(state["turn"]), num(state["year"]), quarterOf(state))
	fmt.Printf("Cash:          %v\n", num(player["cash"]))
	fmt.Printf("Net worth:     %v\n", num(out["net_worth"]))
	fmt.Printf("Credit rating: %v\n", num(out["credit_rating"]))

	if life != nil {
		fmt.Printf("Life:          happiness %v  health %v  sanity %v  intelligence %v\n",
			num(life["happiness"]), num(life["health"]), num(life["sanity"]), num(life["intelligence"]))
	}

	if str(state["status"]) == "ended" {
		danger.Printf("GAME OVER: %v\n", state["defeat_reason"])
	}

	businesses, _ := state["businesses"].([]any)
	if len(businesses) > 0 {
		accent.Println("Businesses")
		fmt.Printf("%-38s %-18s %-8s %10s\n", "ID", "NAME", "STATE", "VALUE")
		for _, b := range businesses {
			m, ok := b.(map[string]any)
			if !ok {
				continue
			}
			fmt.Printf("%-38v %-18v %-8v %10v\n", m["id"], m["name"], m["state"], num(m["current_value"]))
		}
	}

	debts, _ := player["debts"].([]any)
	if len(debts) > 0 {
		accent.Println("Debts")
		fmt.Printf("%-38s %-16s %10s %10s %6s\n", "ID", "TYPE", "REMAINING", "PAYMENT", "QTRS")
		for _, d := range debts {
			m, ok := d.(map[string]any)
			if !ok {
				continue
			}
			fmt.Printf("%-38v %-16v %10v %10v %6v\n",
				m["id"], m["type"], num(m["remaining_amount"]), num(m["quarterly_payment"]), num(m["remaining_quarters"]))
		}
	}

	proposals, _ := state["proposals"].([]any)
	for _, p := range proposals {
		m, ok := p.(map[string]any)
		if !ok || str(m["status"]) != "pending" {
			continue
		}
		warn.Printf("Pending proposal %v: %v on business %v\n", m["id"], m["change_type"], m["business_id"])
	}
}

func renderAdvance(out map[string]any) {
	notes, _ := out["notifications"].([]any)
	for _, n := range notes {
		m, ok := n.(map[string]any)
		if !ok {
			continue
		}
		switch str(m["kind"]) {
		case "game_over":
			danger.Printf("!! %v\n", m["message"])
		case "global_event":
			warn.Printf(">> %v\n", m["message"])
		default:
			printInfo(fmt.Sprintf(">> %v", m["message"]))
		}
	}
	if inner, ok := out["state"].(map[string]any); ok {
		renderStatus(inner)
	}
}

func renderPreview(out map[string]any) {
	accent.Println("Next quarter projection")
	fmt.Printf("Sales:      %v\n", num(out["sales"]))
	fmt.Printf("Income:     %v\n", num(out["income"]))
	fmt.Printf("Expenses:   %v\n", num(out["expenses"]))
	fmt.Printf("Tax:        %v\n", num(out["tax"]))
	fmt.Printf("Net profit: %v\n", num(out["net_profit"]))
	fmt.Printf("Efficiency: %v\n", num(out["efficiency"]))
}

func renderBusinessTemplates(templates []map[string]any) {
	accent.Println("Business templates")
	fmt.Printf("%-16s %-16s %10s %8s %10s\n", "ID", "NAME", "COST", "PRICE", "STAFF")
	for _, m := range templates {
		fmt.Printf("%-16v %-16v %10v %8v %4v-%v\n",
			m["id"], m["name"], num(m["initial_cost"]), num(m["base_price"]),
			num(m["min_employees"]), num(m["max_employees"]))
	}
}

func quarterOf(state map[string]any) any {
	if t, ok := state["turn"].(float64); ok {
		q := int(t) % 4
		if q == 0 {
			q = 4
		}
		return q
	}
	return "?"
}

// num renders a JSON number without the float64 scientific-notation noise.
func num(v any) any {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	if f == float64(int64(f)) {
		return int64(f)
	}
	return fmt.Sprintf("%.1f", f)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
