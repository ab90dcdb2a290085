package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
	"webpush_demo/internal/browser"
	"webpush_demo/internal/push"
	"webpush_demo/internal/worker"
	"webpush_demo/pkg/client"
)

func runStats(ctx context.Context, env *cliEnv, args []string) error {
	flagSet := pflag.NewFlagSet("stats", pflag.ContinueOnError)
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	stats, err := env.api.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "subscriptions: %d\n", stats.TotalSubscriptions)
	fmt.Fprintf(env.stdout, "vapid public key: %s\n", stats.VAPIDPublicKey)
	return nil
}

func notificationFlags(name string) (*pflag.FlagSet, *client.Notification) {
	var n client.Notification
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVarP(&n.Title, "title", "t", "", "notification title")
	flagSet.StringVarP(&n.Body, "body", "b", "", "notification body")
	flagSet.StringVar(&n.Icon, "icon", "", "icon URL")
	flagSet.StringVar(&n.URL, "url", "", "URL opened on click")
	return flagSet, &n
}

func runSend(ctx context.Context, env *cliEnv, args []string) error {
	flagSet, n := notificationFlags("send")
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	out, err := env.api.SendNotification(ctx, *n)
	if err != nil {
		return err
	}
	fmt.Fprintln(env.stdout, out.Message)
	for _, r := range out.Results {
		if r.Success {
			fmt.Fprintf(env.stdout, "  #%d ok\n", r.Index)
			continue
		}
		fmt.Fprintf(env.stdout, "  #%d failed (%d): %s\n", r.Index, r.StatusCode, r.Error)
	}
	fmt.Fprintf(env.stdout, "subscriptions: %d\n", out.TotalSubscriptions)
	return nil
}

func runPublish(ctx context.Context, env *cliEnv, args []string) error {
	flagSet, n := notificationFlags("publish")
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	out, err := env.api.PublishNotification(ctx, *n)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "%s %s\n", out.Message, out.BroadcastID)
	return nil
}

func runSubscribe(ctx context.Context, env *cliEnv, args []string) error {
	var endpoint, p256dh, auth string
	flagSet := pflag.NewFlagSet("subscribe", pflag.ContinueOnError)
	flagSet.StringVar(&endpoint, "endpoint", "", "push endpoint URL (required)")
	flagSet.StringVar(&p256dh, "p256dh", "", "client public key, base64url (generated when empty)")
	flagSet.StringVar(&auth, "auth", "", "client auth secret, base64url (generated when empty)")
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	if endpoint == "" {
		return errors.New("--endpoint is required")
	}

	platform := &terminalPlatform{endpoint: endpoint, p256dh: p256dh, auth: auth}
	manager := browser.NewManager(platform, env.api, env.log)
	if err := manager.Init(ctx); err != nil {
		return err
	}
	if err := manager.Subscribe(ctx); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "subscribed %s\n", endpoint)
	fmt.Fprintf(env.stdout, "subscriptions: %d\n", manager.TotalSubscriptions())
	return nil
}

func runUnsubscribe(ctx context.Context, env *cliEnv, args []string) error {
	var endpoint string
	flagSet := pflag.NewFlagSet("unsubscribe", pflag.ContinueOnError)
	flagSet.StringVar(&endpoint, "endpoint", "", "push endpoint URL (required)")
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	if endpoint == "" {
		return errors.New("--endpoint is required")
	}
	if err := env.api.Unsubscribe(ctx, endpoint); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "unsubscribed %s\n", endpoint)
	return nil
}

func runVapid(_ context.Context, env *cliEnv, args []string) error {
	var format string
	flagSet := pflag.NewFlagSet("vapid", pflag.ContinueOnError)
	flagSet.StringVarP(&format, "format", "f", "text", "output format: text, env, json or yaml")
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}
	keys, err := push.GenerateKeys()
	if err != nil {
		return err
	}
	return writeKeys(env.stdout, keys, format)
}

func writeKeys(w io.Writer, keys push.Keys, format string) error {
	switch format {
	case "text":
		fmt.Fprintln(w, "=== VAPID KEYS ===")
		fmt.Fprintln(w, "Public Key:")
		fmt.Fprintln(w, keys.PublicKey)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Private Key:")
		fmt.Fprintln(w, keys.PrivateKey)
		fmt.Fprintln(w, "==================")
		return nil
	case "env":
		fmt.Fprintf(w, "VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", keys.PublicKey, keys.PrivateKey)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(keys)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close() //nolint:errcheck
		return enc.Encode(keys)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runPreview(ctx context.Context, env *cliEnv, args []string) error {
	var payload, action, origin string
	var click bool
	flagSet := pflag.NewFlagSet("preview", pflag.ContinueOnError)
	flagSet.StringVar(&payload, "payload", "", "raw push payload JSON (empty shows the default message)")
	flagSet.BoolVar(&click, "click", false, "also simulate a click on the notification")
	flagSet.StringVar(&action, "action", "", "clicked action: view or close")
	flagSet.StringVar(&origin, "origin", "http://localhost:3000", "origin of the app windows")
	if ok, err := parseFlags(flagSet, args); !ok {
		return err
	}

	platform := &previewPlatform{out: env.stdout, origin: origin}
	renderer := worker.NewRenderer(platform, env.log)
	var data []byte
	if payload != "" {
		data = []byte(payload)
	}
	if err := renderer.Handle(ctx, worker.Event{Type: worker.EventPush, Data: data}); err != nil {
		return err
	}
	if !click {
		return nil
	}
	return renderer.Handle(ctx, worker.Event{
		Type:         worker.EventNotificationClick,
		Notification: platform.last,
		Action:       action,
	})
}
