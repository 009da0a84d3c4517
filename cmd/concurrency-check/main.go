// Command concurrency-check fires simultaneous bookings for one fresh slot
// against a running API and fails unless exactly one of them wins.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type envelope struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type outcome struct {
	Status int    `json:"-"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:7070/api/v1", "API base url")
	n := flag.Int("n", 10, "concurrent booking attempts")
	flag.Parse()

	if err := run(*baseURL, *n); err != nil {
		fmt.Fprintln(os.Stderr, "FAIL:", err)
		os.Exit(1)
	}
	fmt.Println("PASS")
}

func run(baseURL string, n int) error {
	client := &http.Client{Timeout: 30 * time.Second}

	var doctor envelope
	name := "Dr. Concurrency " + uuid.NewString()[:8]
	if err := postJSON(client, baseURL+"/doctors", map[string]any{"name": name}, http.StatusCreated, &doctor); err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	at := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.Local)
	var slot envelope
	if err := postJSON(client, baseURL+"/slots", map[string]any{"doctor_id": doctor.Data.ID, "time": at}, http.StatusCreated, &slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	fmt.Printf("slot %s, %d concurrent attempts\n", slot.Data.ID, n)

	results := make([]outcome, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = book(client, baseURL, fmt.Sprintf("user-%d", i+1), slot.Data.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	confirmed, conflicts := 0, 0
	for i, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("  user-%d: error %v\n", i+1, r.Err)
		case r.Status == http.StatusOK:
			confirmed++
			fmt.Printf("  user-%d: CONFIRMED\n", i+1)
		default:
			if r.Reason == "SlotAlreadyBooked" {
				conflicts++
			}
			fmt.Printf("  user-%d: %d %s\n", i+1, r.Status, r.Reason)
		}
	}
	fmt.Printf("confirmed=%d already_booked=%d other=%d\n", confirmed, conflicts, n-confirmed-conflicts)

	if confirmed != 1 || conflicts != n-1 {
		return fmt.Errorf("expected 1 confirmed and %d SlotAlreadyBooked", n-1)
	}
	return nil
}

func book(client *http.Client, baseURL, userID, slotID string) outcome {
	body, _ := json.Marshal(map[string]string{"userId": userID, "slotId": slotID})
	resp, err := client.Post(baseURL+"/bookings", "application/json", bytes.NewReader(body))
	if err != nil {
		return outcome{Err: err}
	}
	defer resp.Body.Close()

	out := outcome{Status: resp.StatusCode}
	if resp.StatusCode != http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			out.Err = err
		}
	}
	return out
}

func postJSON(client *http.Client, url string, payload any, want int, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}
	return json.Unmarshal(data, dest)
}
