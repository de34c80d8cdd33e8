package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"reviewhub/internal/logging"
	"reviewhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8000"

type statsResponse struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func main() {
	logging.Init("info", "text")

	global := flag.NewFlagSet("reviewhub", flag.ExitOnError)
	baseURL := global.String("api", envOr("REVIEWHUB_API", defaultBaseURL), "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("parse flags")
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &apiClient{
		baseURL: strings.TrimRight(*baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	if err := run(ctx, c, args[0], args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("command failed")
	}
}

func run(ctx context.Context, c *apiClient, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "create":
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("usage: reviewhub create <text>")
		}
		review, err := c.create(ctx, text)
		if err != nil {
			return err
		}
		return printJSON(out, review)
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		sentiment := fs.String("sentiment", "", "only list reviews with this sentiment")
		if err := fs.Parse(args); err != nil {
			return err
		}
		items, err := c.list(ctx, *sentiment)
		if err != nil {
			return err
		}
		return printJSON(out, items)
	case "stats":
		stats, err := c.stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, stats)
	case "watch":
		return c.watch(ctx, out)
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *apiClient) create(ctx context.Context, text string) (models.Review, error) {
	var review models.Review
	err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/reviews", map[string]string{"text": text}, &review)
	return review, err
}

func (c *apiClient) list(ctx context.Context, sentiment string) ([]models.Review, error) {
	u, err := url.Parse(c.baseURL + "/reviews")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if sentiment != "" {
		qv := u.Query()
		qv.Set("sentiment", sentiment)
		u.RawQuery = qv.Encode()
	}

	var items []models.Review
	if err := c.doJSON(ctx, http.MethodGet, u.String(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *apiClient) stats(ctx context.Context) (statsResponse, error) {
	var stats statsResponse
	err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/reviews/stats", nil, &stats)
	return stats, err
}

// watch prints every feed message as one line until ctx is cancelled or
// the server closes the connection.
func (c *apiClient) watch(ctx context.Context, out io.Writer) error {
	wsURL, err := websocketURL(c.baseURL, "/reviews/ws")
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()
	log.Info().Str("url", wsURL).Msg("watching review feed")

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if _, err := fmt.Fprintln(out, strings.TrimSpace(string(msg))); err != nil {
			return err
		}
	}
}

func (c *apiClient) doJSON(ctx context.Context, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed (%d): %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   strings.TrimRight(u.Path, "/") + path,
	}).String(), nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "reviewhub [-api URL] <command> [flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  create <text>")
	fmt.Fprintln(w, "  list [-sentiment positive|negative|neutral]")
	fmt.Fprintln(w, "  stats")
	fmt.Fprintln(w, "  watch")
}
