//go:build ignore

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"lead-call-bridge/internal/formdata"
)

// Submission shapes seen from the form builder.
var samples = []struct {
	name string
	body string
}{
	{"flat", `{"name":"Jane Doe","phone":"07123 456789","email":"jane@example.com","consent":"yes"}`},
	{"nested fields", `{"fields":{"full name":"Jane Doe","mobile":"+44 7123 456789","I agree":"checked"}}`},
	{"data.fields list", `{"data":{"fields":[{"label":"Your Name","value":"Jane Doe"},{"label":"Phone Number","value":"00447123456789"},{"label":"Consent","value":"on"}]}}`},
	{"no consent", `{"name":"Jane Doe","phone":"07123456789","consent":"no"}`},
	{"bad phone", `{"name":"Jane Doe","phone":"12345","consent":"yes"}`},
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "local server base URL")
	placeCall := flag.Bool("call", false, "post the first sample to the form endpoint, placing a real call")
	flag.Parse()

	fmt.Println("=== Lead Call Bridge - Local Test ===")
	fmt.Println()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	fmt.Println("📖 Extracting sample submissions...")
	extractor := formdata.NewExtractor()
	for _, s := range samples {
		lead, err := extractor.ExtractLead(formdata.Parse([]byte(s.body)))
		if err == nil {
			err = lead.Normalize()
		}
		if err != nil {
			fmt.Printf("   ✗ %-18s %v (normalized %q)\n", s.name, err, lead.Number)
			continue
		}
		fmt.Printf("   ✓ %-18s %s -> %s\n", s.name, lead.Name, lead.Number)
	}

	fmt.Println()
	fmt.Printf("🔌 Checking server at %s...\n", *serverURL)
	client := &http.Client{Timeout: 15 * time.Second}

	status, body, err := send(client, http.MethodGet, *serverURL+"/health", "")
	if err != nil {
		fmt.Printf("❌ Server not reachable: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("   %d %s\n", status, body)

	fmt.Println()
	fmt.Println("📨 Posting rejected submissions...")
	for _, s := range samples[3:] {
		status, body, err := send(client, http.MethodPost, *serverURL+"/api/duda-form", s.body)
		if err != nil {
			fmt.Printf("   ⚠️  %s: %v\n", s.name, err)
			continue
		}
		fmt.Printf("   %-18s %d %s\n", s.name, status, body)
	}

	fmt.Println()
	fmt.Println("📡 Posting a call event...")
	status, body, err = send(client, http.MethodPost, *serverURL+"/api/vapi-events",
		`{"message":{"type":"status-update","status":"ringing","call":{"id":"local-test"}}}`)
	if err != nil {
		fmt.Printf("   ⚠️  %v\n", err)
	} else {
		fmt.Printf("   %d %s\n", status, body)
	}

	if *placeCall {
		fmt.Println()
		fmt.Println("📞 Placing a real call...")
		status, body, err := send(client, http.MethodPost, *serverURL+"/api/duda-form", samples[0].body)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("   %d %s\n", status, body)
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════")
	fmt.Println("              TEST COMPLETE")
	fmt.Println("═══════════════════════════════════════════")
}

func send(client *http.Client, method, url, body string) (int, string, error) {
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw), nil
}
