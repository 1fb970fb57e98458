package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type Campaign struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	CreatedBy string `json:"createdBy"`
}

type feedMessage struct {
	Type     string   `json:"type"`
	Campaign Campaign `json:"campaign"`
}

func main() {
	base := "http://localhost:5000"
	if v := os.Getenv("GREENSPARK_URL"); v != "" {
		base = strings.TrimRight(v, "/")
	}
	fmt.Println("=== GreenSpark Backend Smoke Test ===")
	fmt.Println()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}
	email := fmt.Sprintf("smoke-%d@greenspark.test", time.Now().UnixNano())

	// 1. Health
	fmt.Println("1. Checking health...")
	expect(client.Get(base + "/health"))(http.StatusOK)
	fmt.Println("✓ Health endpoint working")

	// 2. Live feed
	fmt.Println("\n2. Connecting to the live campaign feed...")
	wsURL := "ws" + strings.TrimPrefix(base, "http") + "/api/campaigns/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://localhost:5173"}})
	if err != nil {
		log.Fatal("Dial error:", err)
	}
	defer conn.Close()
	fmt.Println("✓ WebSocket connected")

	// 3. Unauthenticated create is rejected
	fmt.Println("\n3. Creating a campaign without a session...")
	expect(postJSON(client, base+"/api/campaigns/create", campaignBody()))(http.StatusUnauthorized)
	fmt.Println("✓ Rejected with 401")

	// 4. Register, which also starts a session
	fmt.Println("\n4. Registering", email)
	expect(postJSON(client, base+"/api/auth/register", map[string]string{
		"name": "Smoke Tester", "email": email, "password": "pw-123456",
	}))(http.StatusCreated)
	expect(postJSON(client, base+"/api/auth/register", map[string]string{
		"name": "Smoke Tester", "email": email, "password": "pw-123456",
	}))(http.StatusBadRequest)
	fmt.Println("✓ Registered; duplicate rejected")

	// 5. Logout then login
	fmt.Println("\n5. Logging out and back in...")
	expect(postJSON(client, base+"/api/auth/logout", nil))(http.StatusOK)
	expect(client.Get(base + "/api/auth/check-auth"))(http.StatusNotFound)
	expect(postJSON(client, base+"/api/auth/login", map[string]string{
		"email": email, "password": "wrong",
	}))(http.StatusBadRequest)
	expect(postJSON(client, base+"/api/auth/login", map[string]string{
		"email": email, "password": "pw-123456",
	}))(http.StatusOK)
	body := expect(client.Get(base + "/api/auth/check-auth"))(http.StatusOK)
	fmt.Printf("✓ Session restored: %s\n", body)

	// 6. Create a campaign and watch it arrive on the feed
	fmt.Println("\n6. Creating a campaign...")
	body = expect(postJSON(client, base+"/api/campaigns/create", campaignBody()))(http.StatusCreated)
	var created Campaign
	if err := json.Unmarshal(body, &created); err != nil {
		log.Fatal("Failed to decode campaign:", err)
	}
	fmt.Printf("   ✓ Created %s (%s)\n", created.ID, created.Title)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg feedMessage
	if err := conn.ReadJSON(&msg); err != nil {
		log.Fatal("Feed read error:", err)
	}
	if msg.Campaign.ID != created.ID {
		log.Fatalf("Feed delivered %q, want %q", msg.Campaign.ID, created.ID)
	}
	fmt.Println("   ✓ Campaign pushed to the live feed")

	// 7. List
	fmt.Println("\n7. Listing campaigns...")
	body = expect(client.Get(base + "/api/campaigns"))(http.StatusOK)
	var campaigns []Campaign
	if err := json.Unmarshal(body, &campaigns); err != nil {
		log.Fatal("Failed to decode campaigns:", err)
	}
	if len(campaigns) == 0 || campaigns[len(campaigns)-1].ID != created.ID {
		log.Fatal("New campaign is not last in the list")
	}
	fmt.Printf("   Found %d campaigns, newest last\n", len(campaigns))

	fmt.Println("\n=== Test Complete ===")
	fmt.Println("\nNote: the confirmation email needs MAIL_PROVIDER, Slack alerts need SLACK_WEBHOOK_URL")
}

func campaignBody() map[string]string {
	return map[string]string{
		"name":        "Smoke Tester",
		"email":       "organizer@greenspark.test",
		"phone":       "555-0100",
		"title":       "Beach cleanup",
		"category":    "cleanup",
		"location":    "North pier",
		"date":        time.Now().AddDate(0, 0, 14).Format("2006-01-02"),
		"duration":    "3 hours",
		"description": "Gloves and bags provided",
	}
}

func postJSON(client *http.Client, url string, v any) (*http.Response, error) {
	var buf bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			return nil, err
		}
	}
	return client.Post(url, "application/json", &buf)
}

// expect fails the run unless the response has the wanted status, and returns its body.
func expect(resp *http.Response, err error) func(want int) []byte {
	return func(want int) []byte {
		if err != nil {
			log.Fatal("Request failed:", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != want {
			log.Fatalf("%s %s: got %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
		}
		return body
	}
}
