// Command cli is a terminal client for the purchase log server. It drives
// the same view controller the web client would: one authoritative dataset,
// refreshed after every mutation or filter action.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/bobalog/bobalog-go/internal/client/api"
	"github.com/bobalog/bobalog-go/internal/client/view"
	"github.com/bobalog/bobalog-go/internal/model"
)

func main() {
	serverURL := os.Getenv("BOBALOG_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:3001"
	}

	app := &app{
		client: api.New(serverURL),
		reader: bufio.NewReader(os.Stdin),
	}
	app.controller = view.NewController(app.client)

	if err := app.run(context.Background()); err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	client     *api.Client
	controller *view.Controller
	reader     *bufio.Reader
}

func (a *app) run(ctx context.Context) error {
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	if err := a.controller.Refresh(ctx); err != nil {
		fmt.Println("could not load purchases:", err)
	}
	a.render()

	for {
		line, err := a.prompt("command (list, add, edit, del, filter, revert, global, spend, help, quit)")
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Println("list   show the personal log (or active filtered view)")
			fmt.Println("add    record a new purchase")
			fmt.Println("edit   change a purchase: edit <id>")
			fmt.Println("del    remove a purchase: del <id>")
			fmt.Println("filter pick one of the three search options")
			fmt.Println("revert back to the full log")
			fmt.Println("global show the site-wide top flavours")
			fmt.Println("spend  total cost of what is displayed")
		case "list":
			if err := a.controller.ShowLog(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			a.render()
		case "add":
			a.addPurchase(ctx)
		case "edit":
			a.editPurchase(ctx, fields)
		case "del":
			a.deletePurchase(ctx, fields)
		case "filter":
			a.applyFilter(ctx)
		case "revert":
			if err := a.controller.Revert(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			a.render()
		case "global":
			if err := a.controller.ShowRanking(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			a.render()
		case "spend":
			fmt.Printf("spendings: $%.2f\n", a.controller.Spendings())
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func (a *app) authenticate(ctx context.Context) error {
	for {
		choice, err := a.prompt("login or register?")
		if err != nil {
			return err
		}

		register := choice == "register"
		var name string
		if register {
			if name, err = a.prompt("name"); err != nil {
				return err
			}
		}
		email, err := a.prompt("email")
		if err != nil {
			return err
		}
		password, err := a.promptPassword()
		if err != nil {
			return err
		}

		if register {
			err = a.client.Register(ctx, name, email, password)
		} else {
			err = a.client.Login(ctx, email, password)
		}
		if err != nil {
			fmt.Println("authentication failed:", err)
			continue
		}
		return nil
	}
}

func (a *app) addPurchase(ctx context.Context) {
	req, ok := a.promptPurchase(model.PurchaseRequest{})
	if !ok {
		return
	}

	if _, err := a.client.CreatePurchase(ctx, req); err != nil {
		fmt.Println("error:", err)
		return
	}
	a.refreshAfterMutation(ctx)
}

func (a *app) editPurchase(ctx context.Context, fields []string) {
	id, ok := parseIDArg(fields)
	if !ok {
		return
	}

	// Pre-populate from the prior record so a single field can be changed
	// without retyping the rest; updates replace the full field set.
	prior, err := a.client.GetPurchase(ctx, id)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if prior == nil {
		fmt.Println("no such purchase")
		return
	}

	req, ok := a.promptPurchase(model.PurchaseRequest{
		Flavour:  prior.Flavour,
		Quantity: prior.Quantity,
		Price:    prior.Price,
		Location: prior.Location,
		Date:     prior.Date,
	})
	if !ok {
		return
	}
	req.PurchaseID = id

	if _, err := a.client.UpdatePurchase(ctx, req); err != nil {
		fmt.Println("error:", err)
		return
	}
	a.refreshAfterMutation(ctx)
}

func (a *app) deletePurchase(ctx context.Context, fields []string) {
	id, ok := parseIDArg(fields)
	if !ok {
		return
	}

	if err := a.client.DeletePurchase(ctx, id); err != nil {
		fmt.Println("error:", err)
		return
	}
	a.refreshAfterMutation(ctx)
}

func (a *app) refreshAfterMutation(ctx context.Context) {
	if err := a.controller.AfterMutation(ctx); err != nil {
		fmt.Println("could not refresh:", err)
		return
	}
	a.render()
}

func (a *app) applyFilter(ctx context.Context) {
	fmt.Println("choose one of the three search options, leave the other two blank")
	window, err := a.prompt("purchases made in the last (day, week, month, year)")
	if err != nil {
		return
	}
	direction, err := a.prompt("order by price (ascending, descending)")
	if err != nil {
		return
	}
	flavour, err := a.prompt("cheapest locations for this flavour")
	if err != nil {
		return
	}

	filter, err := model.ParseFilter(window, direction, flavour)
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := a.controller.ApplyFilter(ctx, filter); err != nil {
		fmt.Println("error:", err)
		return
	}
	a.render()
}

func (a *app) promptPurchase(prior model.PurchaseRequest) (model.PurchaseRequest, bool) {
	req := prior

	if v, err := a.promptDefault("flavour", prior.Flavour); err == nil {
		req.Flavour = v
	} else {
		return req, false
	}
	if v, err := a.promptDefault("quantity", strconv.Itoa(prior.Quantity)); err == nil {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			fmt.Println("quantity must be a whole number")
			return req, false
		}
		req.Quantity = n
	} else {
		return req, false
	}
	if v, err := a.promptDefault("price", strconv.FormatFloat(prior.Price, 'f', -1, 64)); err == nil {
		p, convErr := strconv.ParseFloat(v, 64)
		if convErr != nil {
			fmt.Println("price must be a number")
			return req, false
		}
		req.Price = p
	} else {
		return req, false
	}
	if v, err := a.promptDefault("location (optional)", prior.Location); err == nil {
		req.Location = v
	} else {
		return req, false
	}
	if v, err := a.promptDefault("date YYYY-MM-DD (optional)", prior.Date); err == nil {
		req.Date = v
	} else {
		return req, false
	}

	return req, true
}

func (a *app) render() {
	switch a.controller.State() {
	case view.StateRanking:
		fmt.Println("flavour\ttotal")
		for _, ft := range a.controller.Ranking() {
			fmt.Printf("%s\t%d\n", ft.Flavour, ft.TotalCount)
		}
	default:
		fmt.Println("id\tflavour\tqty\tprice\tlocation\tdate")
		for _, p := range a.controller.Purchases() {
			fmt.Printf("%d\t%s\t%d\t%.2f\t%s\t%s\n",
				p.ID, p.Flavour, p.Quantity, p.Price, p.Location, p.Date)
		}
		if a.controller.Querying() {
			fmt.Println("(filtered view - 'revert' to show the full log)")
		}
	}
}

func (a *app) prompt(label string) (string, error) {
	fmt.Printf("%s\n> ", label)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) promptDefault(label, def string) (string, error) {
	display := label
	if def != "" {
		display = fmt.Sprintf("%s [%s]", label, def)
	}
	v, err := a.prompt(display)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (a *app) promptPassword() (string, error) {
	fmt.Print("password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func parseIDArg(fields []string) (int64, bool) {
	if len(fields) < 2 {
		fmt.Println("usage:", fields[0], "<id>")
		return 0, false
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Println("id must be a number")
		return 0, false
	}
	return id, true
}
