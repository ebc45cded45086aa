// storefront drives the purchase flow against the API from a terminal:
// pick a panel package, choose a payment channel with its fee shown,
// create the order and print the returned payment instructions. Submitted
// purchases are mirrored into a local history file.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"panel-store/internal/catalog"
	"panel-store/internal/dto"
	"panel-store/internal/model"
	"panel-store/internal/storeclient"
)

func main() {
	var (
		apiURL      = flag.String("api", "http://localhost:8080", "storefront API base URL")
		anonKey     = flag.String("key", os.Getenv("ANON_KEY"), "anon bearer key")
		panel       = flag.String("panel", "private", "panel type: private or public")
		username    = flag.String("username", "", "panel username")
		email       = flag.String("email", "", "buyer email")
		packageName = flag.String("package", "", `package label, e.g. "1GB RAM"`)
		method      = flag.String("method", "", "payment channel code, e.g. BRIVA")
		historyPath = flag.String("history", "", "transaction history file (default: user config dir)")
		listOnly    = flag.Bool("list", false, "print local transaction history and exit")
		yes         = flag.Bool("yes", false, "skip the confirmation prompt")
	)
	flag.Parse()

	if err := run(*apiURL, *anonKey, *panel, *username, *email, *packageName, *method, *historyPath, *listOnly, *yes); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(apiURL, anonKey, panel, username, email, packageName, method, historyPath string, listOnly, yes bool) error {
	if historyPath == "" {
		p, err := storeclient.DefaultHistoryPath()
		if err != nil {
			return err
		}
		historyPath = p
	}
	history := storeclient.NewHistory(historyPath)

	if listOnly {
		return printHistory(history)
	}

	if username == "" || email == "" || packageName == "" {
		return fmt.Errorf("-username, -email and -package are required")
	}
	panelType := model.PanelType(panel)
	if !panelType.Valid() {
		return fmt.Errorf("unknown panel type %q", panel)
	}
	pkg, ok := catalog.FindPackage(panelType, packageName)
	if !ok {
		return fmt.Errorf("unknown package %q for panel %q", packageName, panel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	api := storeclient.New(apiURL, anonKey)

	// Confirmation step: show the channel fee and the resulting total.
	channels, err := api.PaymentMethods(ctx)
	if err != nil {
		return fmt.Errorf("fetch payment methods: %w", err)
	}
	channel, err := pickChannel(channels, method)
	if err != nil {
		return err
	}

	fee := storeclient.CustomerFee(pkg.Price, channel)
	total := storeclient.CustomerTotal(pkg.Price, channel)
	fmt.Printf("Panel %s - %s\n", panelType, pkg.Label)
	fmt.Printf("Harga    : Rp %d\n", pkg.Price)
	fmt.Printf("Biaya %s : Rp %d\n", channel.Code, fee)
	fmt.Printf("Total    : Rp %d\n", total)

	if !yes && !confirm() {
		fmt.Println("dibatalkan")
		return nil
	}

	resp, err := api.CreateOrder(ctx, &dto.CreateOrderRequest{
		Username:      username,
		Email:         email,
		PanelType:     panelType,
		Package:       &pkg,
		PaymentMethod: channel.Code,
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	if err := history.Add(storeclient.HistoryEntry{
		OrderID:       resp.OrderID,
		Username:      username,
		Email:         email,
		PanelType:     panelType,
		PackageLabel:  pkg.Label,
		Price:         pkg.Price,
		PaymentMethod: channel.Code,
	}); err != nil {
		// The order exists server-side regardless; the mirror is best-effort.
		fmt.Fprintln(os.Stderr, "warning: could not save local history:", err)
	}

	printPayment(resp)
	return nil
}

func pickChannel(channels []model.Channel, code string) (model.Channel, error) {
	if code == "" {
		if len(channels) == 0 {
			return model.Channel{}, fmt.Errorf("no active payment channels")
		}
		fmt.Println("Metode pembayaran:")
		for _, ch := range channels {
			fmt.Printf("  %-10s %s\n", ch.Code, ch.Name)
		}
		return model.Channel{}, fmt.Errorf("pick one with -method")
	}
	for _, ch := range channels {
		if strings.EqualFold(ch.Code, code) {
			return ch, nil
		}
	}
	return model.Channel{}, fmt.Errorf("payment channel %q is not available", code)
}

func confirm() bool {
	fmt.Print("Lanjutkan pembayaran? [y/N] ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "ya" || answer == "yes"
}

func printPayment(resp *dto.CreateOrderResponse) {
	fmt.Println("\nOrder:", resp.OrderID)
	if resp.Message != "" {
		fmt.Println(resp.Message)
	}
	if len(resp.Payment) == 0 {
		return
	}

	var data model.PaymentData
	if err := json.Unmarshal(resp.Payment, &data); err != nil {
		fmt.Println(string(resp.Payment))
		return
	}

	fmt.Println("Invoice  :", data.Reference)
	if data.PayCode != "" {
		fmt.Println("Virtual Account:", data.PayCode)
	}
	if data.QRURL != "" {
		fmt.Println("QR       :", data.QRURL)
	}
	if data.CheckoutURL != "" {
		fmt.Println("Checkout :", data.CheckoutURL)
	}
	if data.ExpiredTime > 0 {
		expiry := time.Unix(data.ExpiredTime, 0)
		fmt.Printf("Bayar sebelum %s (%s lagi)\n",
			expiry.Format("02 Jan 2006 15:04"),
			time.Until(expiry).Round(time.Minute))
	}
}

func printHistory(history *storeclient.History) error {
	entries, err := history.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("belum ada transaksi")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %s/%s  Rp %d  %s\n",
			e.CreatedAt, e.OrderID, e.PanelType, e.PackageLabel, e.Price, e.PaymentMethod)
	}
	return nil
}
