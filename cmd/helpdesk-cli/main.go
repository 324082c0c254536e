// ABOUTME: Terminal client for chatting with helpdesk-gateway over the HTTP API.
// ABOUTME: Provides readline-style input with JWT auth and a colored transcript.

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
)

// tokenPath returns the path of the saved session token file.
func tokenPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "helpdesk", "token")
}

// getToken returns the JWT token from HELPDESK_TOKEN env var or the token file.
func getToken() string {
	if token := os.Getenv("HELPDESK_TOKEN"); token != "" {
		return token
	}

	path := tokenPath()
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// saveToken persists the session token for later runs.
func saveToken(token string) error {
	path := tokenPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

// messageJSON mirrors the API's message shape.
type messageJSON struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type transcriptResponse struct {
	Messages []messageJSON `json:"messages"`
	Error    string        `json:"error"`
}

type sessionResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

func main() {
	server := flag.String("server", "http://localhost:8080", "Gateway server URL")
	flag.Parse()

	fmt.Printf("helpdesk-cli connected to %s\n", *server)
	if getToken() != "" {
		fmt.Println("Auth: session token configured")
	} else {
		fmt.Println("Auth: none (use /login or /register)")
	}
	fmt.Println("Type a message and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *server); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

func run(ctx context.Context, server string) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		// Read input with context awareness
		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if scanner.Scan() {
				inputCh <- scanner.Text()
			} else {
				if err := scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		if input == "/help" {
			printHelp()
			fmt.Println()
			continue
		}

		if strings.HasPrefix(input, "/login") || strings.HasPrefix(input, "/register") {
			endpoint := "/api/login"
			args := strings.Fields(input)
			if args[0] == "/register" {
				endpoint = "/api/register"
			}
			if len(args) != 3 {
				fmt.Printf("Usage: %s <email> <password>\n\n", args[0])
				continue
			}
			if err := signIn(ctx, server, endpoint, args[1], args[2]); err != nil {
				fmt.Printf("[error] %v\n", err)
			}
			fmt.Println()
			continue
		}

		if input == "/history" {
			if err := fetchHistory(ctx, server); err != nil {
				fmt.Printf("[error] %v\n", err)
			}
			fmt.Println()
			continue
		}

		if input == "/suggestions" {
			if err := listSuggestions(ctx, server); err != nil {
				fmt.Printf("[error] %v\n", err)
			}
			fmt.Println()
			continue
		}

		// Plain text goes to the conversation
		if err := sendMessage(ctx, server, input); err != nil {
			fmt.Printf("[error] %v\n", err)
		}
		fmt.Println()
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /register <email> <password>   Create an account")
	fmt.Println("  /login <email> <password>      Sign in")
	fmt.Println("  /history                       Show the conversation so far")
	fmt.Println("  /suggestions                   List example queries")
	fmt.Println("  /help                          Show this help")
	fmt.Println("  /quit                          Exit")
}

func signIn(ctx context.Context, server, endpoint, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("contacting server: %w", err)
	}
	defer resp.Body.Close()

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if session.Token == "" {
		if session.Error != "" {
			return fmt.Errorf("%s", session.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if err := saveToken(session.Token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	color.Green("Signed in. Token saved to %s", tokenPath())
	return nil
}

func apiRequest(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

func decodeTranscript(resp *http.Response) (*transcriptResponse, error) {
	defer resp.Body.Close()

	var transcript transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if transcript.Error != "" {
		return nil, fmt.Errorf("%s", transcript.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return &transcript, nil
}

func printMessage(msg messageJSON) {
	if msg.Sender == "user" {
		color.New(color.FgCyan).Printf("you: ")
	} else {
		color.New(color.FgGreen).Printf("assistant: ")
	}
	fmt.Println(msg.Content)
}

func sendMessage(ctx context.Context, server, text string) error {
	body, err := json.Marshal(map[string]string{"message": text})
	if err != nil {
		return err
	}

	resp, err := apiRequest(ctx, http.MethodPost, server+"/api/send", body)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}

	transcript, err := decodeTranscript(resp)
	if err != nil {
		return err
	}

	// Print the assistant's reply, the final message of the turn
	if n := len(transcript.Messages); n > 0 {
		printMessage(transcript.Messages[n-1])
	}
	return nil
}

func fetchHistory(ctx context.Context, server string) error {
	resp, err := apiRequest(ctx, http.MethodGet, server+"/api/history", nil)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	transcript, err := decodeTranscript(resp)
	if err != nil {
		return err
	}

	if len(transcript.Messages) == 0 {
		fmt.Println("No messages yet")
		return nil
	}
	for _, msg := range transcript.Messages {
		printMessage(msg)
	}
	return nil
}

func listSuggestions(ctx context.Context, server string) error {
	resp, err := apiRequest(ctx, http.MethodGet, server+"/api/suggestions", nil)
	if err != nil {
		return fmt.Errorf("fetching suggestions: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	fmt.Println("Try asking:")
	for _, s := range out.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
	return nil
}
