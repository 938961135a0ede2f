package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"cardlink/internal/client/api"
	"cardlink/internal/client/store"
	"cardlink/internal/models"
	"cardlink/internal/sharelink"
)

var (
	version   string
	buildDate string
)

// repl runs the interactive shell loop, accepting commands to edit, save
// and share cards and to use the template marketplace.
func repl(client *api.Client, cs *store.CardStore, account *models.Account) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("cardlink> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, edit, show, flip, save, list, remove <i>, share <i>, scan <link>, saved, unsave <i>, market, buy <id>, apply <id>, plan <tier>, account, exit")
		case "edit":
			store.PromptCardEdits(cs)
		case "show":
			side := "front"
			if cs.Flipped() {
				side = "back"
			}
			b, _ := json.MarshalIndent(cs.Current(), "", "  ")
			fmt.Printf("(%s)\n%s\n", side, string(b))
		case "flip":
			cs.ToggleFlip()
		case "save":
			card := cs.Current()
			if !card.Savable() {
				fmt.Println("Card needs a name before it can be saved")
				continue
			}
			if card.OwnerIndex == nil {
				have, err := client.OwnCards(ctx)
				if err != nil {
					fmt.Println("save failed:", err)
					continue
				}
				if !store.CanAddCard(account.Plan, len(have)) {
					fmt.Printf("Plan %s allows at most %d cards\n", account.Plan, account.Plan.MaxCards())
					continue
				}
			}
			saved, err := client.SaveCard(ctx, card)
			if err != nil {
				fmt.Println("save failed:", err)
				continue
			}
			cs.SetOwnerIndex(*saved.OwnerIndex)
			fmt.Printf("Saved at index %d\n", *saved.OwnerIndex)
			cs.ResetCurrent()
		case "list":
			cards, err := client.OwnCards(ctx)
			if err != nil {
				fmt.Println("list failed:", err)
				continue
			}
			for _, c := range cards {
				fmt.Printf("[%d] %s | %s, %s\n", *c.OwnerIndex, c.Name, c.JobTitle, c.Company)
			}
		case "remove":
			i, ok := indexArg(args)
			if !ok {
				fmt.Println("Usage: remove <index>")
				continue
			}
			if err := client.RemoveCard(ctx, i); err != nil {
				fmt.Println("remove failed:", err)
			} else {
				fmt.Println("Card removed")
			}
		case "share":
			i, ok := indexArg(args)
			if !ok {
				fmt.Println("Usage: share <index>")
				continue
			}
			link := sharelink.Encode(account.ID, i)
			fmt.Println("Share link (QR payload):", link)
		case "scan":
			if len(args) < 2 {
				fmt.Println("Usage: scan <link>")
				continue
			}
			ref, err := sharelink.Decode(args[1])
			if err != nil {
				fmt.Println("Invalid QR code")
				continue
			}
			card, err := client.ResolveCard(ctx, ref.OwnerID, ref.CardIndex)
			if err != nil {
				fmt.Println("scan failed:", err)
				continue
			}
			if card == nil {
				fmt.Println("Card not found")
				continue
			}
			b, _ := json.MarshalIndent(card, "", "  ")
			fmt.Println(string(b))
			if !store.CanAddSavedRef(account.Plan, len(cs.SavedRefs())) {
				fmt.Printf("Plan %s allows at most %d saved cards\n", account.Plan, account.Plan.MaxSavedRefs())
				continue
			}
			if err := client.AddSavedRef(ctx, ref); err != nil {
				fmt.Println("bookmark failed:", err)
				continue
			}
			cs.AddSavedRef(ref)
			fmt.Println("Card bookmarked")
		case "saved":
			refs, err := client.SavedRefs(ctx)
			if err != nil {
				fmt.Println("saved failed:", err)
				continue
			}
			cs.SetSavedRefs(refs)
			for i, ref := range refs {
				card, err := client.ResolveCard(ctx, ref.OwnerID, ref.CardIndex)
				if err != nil {
					fmt.Printf("[%d] (error: %v)\n", i, err)
					continue
				}
				if card == nil {
					fmt.Printf("[%d] Card not found (owner %s, index %d)\n", i, ref.OwnerID, ref.CardIndex)
					continue
				}
				fmt.Printf("[%d] %s | %s, %s\n", i, card.Name, card.JobTitle, card.Company)
			}
		case "unsave":
			i, ok := indexArg(args)
			if !ok {
				fmt.Println("Usage: unsave <index>")
				continue
			}
			if err := client.RemoveSavedRef(ctx, i); err != nil {
				fmt.Println("unsave failed:", err)
			} else {
				cs.RemoveSavedRef(i)
				fmt.Println("Bookmark removed")
			}
		case "market":
			templates, owned, err := client.Templates(ctx)
			if err != nil {
				fmt.Println("market failed:", err)
				continue
			}
			ownedSet := make(map[string]bool, len(owned))
			for _, id := range owned {
				ownedSet[id] = true
			}
			for _, t := range templates {
				mark := " "
				if ownedSet[t.ID] {
					mark = "*"
				}
				fmt.Printf("%s %s | %s (%s) %.2f\n", mark, t.ID, t.Name, t.Category, t.Price)
			}
		case "buy":
			if len(args) < 2 {
				fmt.Println("Usage: buy <template-id>")
				continue
			}
			balance, err := client.Purchase(ctx, args[1])
			if err != nil {
				fmt.Println("purchase failed:", err)
				continue
			}
			fmt.Printf("Purchased. New balance: %.2f\n", balance)
		case "apply":
			if len(args) < 2 {
				fmt.Println("Usage: apply <template-id>")
				continue
			}
			templates, owned, err := client.Templates(ctx)
			if err != nil {
				fmt.Println("apply failed:", err)
				continue
			}
			var tpl *models.Template
			for i := range templates {
				if templates[i].ID == args[1] {
					tpl = &templates[i]
					break
				}
			}
			if tpl == nil {
				fmt.Println("Unknown template:", args[1])
				continue
			}
			isOwned := false
			for _, id := range owned {
				if id == tpl.ID {
					isOwned = true
					break
				}
			}
			if !isOwned {
				fmt.Println("Template not owned. Use 'buy' first.")
				continue
			}
			// A template carries a complete card, so this is a full
			// replacement: the editor starts from the template with no
			// stale style values. Fill in the name before saving.
			cs.SetCurrent(store.PatchFromCard(tpl.Card))
			fmt.Printf("Applied %s. Edit the card and save.\n", tpl.Name)
		case "plan":
			if len(args) < 2 {
				fmt.Println("Usage: plan <Free|Pro|Premium|Ultimate>")
				continue
			}
			if err := client.ChangePlan(ctx, models.Plan(args[1])); err != nil {
				fmt.Println("plan change failed:", err)
				continue
			}
			account.Plan = models.Plan(args[1])
			fmt.Println("Plan updated")
		case "account":
			acc, err := client.Account(ctx)
			if err != nil {
				fmt.Println("account failed:", err)
				continue
			}
			*account = *acc
			fmt.Printf("%s <%s>\nPlan: %s\nBalance: %.2f\n", acc.Username, acc.Email, acc.Plan, acc.Balance)
		case "exit":
			_ = client.Logout(ctx)
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func indexArg(args []string) (int, bool) {
	if len(args) < 2 {
		return 0, false
	}
	i, err := strconv.Atoi(args[1])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// main parses command-line flags and signs in before starting the shell.
func main() {
	var (
		cmd      string
		baseURL  string
		email    string
		password string
		username string
		showVer  bool
	)

	flag.StringVar(&cmd, "cmd", "shell", "command: register | shell")
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&email, "email", "", "account email")
	flag.StringVar(&password, "password", "", "account password")
	flag.StringVar(&username, "username", "", "display name for registration")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("CardLink Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	if email == "" || password == "" {
		log.Fatal("please provide -email and -password")
	}

	client := api.New(baseURL)
	ctx := context.Background()

	var account *models.Account
	var err error
	switch cmd {
	case "register":
		account, err = client.Register(ctx, email, password, username)
	case "shell":
		account, err = client.Login(ctx, email, password)
	default:
		log.Fatalf("unknown command: %s", cmd)
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Signed in as %s (%s plan)\n", account.Username, account.Plan)
	repl(client, store.New(), account)
}
