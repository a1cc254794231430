package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type statsView struct {
	TotalXP       int    `json:"totalXp"`
	Coins         int    `json:"coins"`
	CurrentStreak int    `json:"currentStreak"`
	LastStudyDate string `json:"lastStudyDate"`
	ActiveAvatar  string `json:"activeAvatar"`
	DarkMode      bool   `json:"darkMode"`
}

// cmdStats shows XP, coins and the current streak
func cmdStats() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/stats")
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var stats statsView
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Println("Progress")
	fmt.Println("========")
	fmt.Printf("Avatar:  %s\n", stats.ActiveAvatar)
	fmt.Printf("XP:      %d\n", stats.TotalXP)
	fmt.Printf("Coins:   %d\n", stats.Coins)
	if stats.CurrentStreak > 0 {
		fmt.Printf("Streak:  🔥 %d day(s), last studied %s\n", stats.CurrentStreak, stats.LastStudyDate)
	} else {
		fmt.Println("Streak:  none, complete a level today to start one")
	}
	return nil
}

// cmdShop lists the shop catalog
func cmdShop() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	resp, err := http.Get(daemonAddr + "/v1/shop")
	if err != nil {
		return fmt.Errorf("get catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var result struct {
		Items []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Icon     string `json:"icon"`
			Price    int    `json:"price"`
			Category string `json:"category"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Println("Shop")
	fmt.Println("====")
	for _, item := range result.Items {
		fmt.Printf("%s %-16s %4d coins  [%s]  %s\n", item.Icon, item.Name, item.Price, item.Category, item.ID)
	}
	return nil
}

// cmdBuy purchases a shop item
func cmdBuy(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lernpfad buy <item>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	body, _ := json.Marshal(map[string]string{"item_id": args[0]})
	resp, err := postJSON("/v1/shop/purchase", body)
	if err != nil {
		return fmt.Errorf("purchase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var stats statsView
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("✓ Purchased %s. Balance: %d coins\n", args[0], stats.Coins)
	return nil
}

// cmdAvatar activates an owned avatar
func cmdAvatar(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: lernpfad avatar <item> (or 'lernpfad avatar default')")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'lernpfad start' first)")
	}

	itemID := args[0]
	if itemID == "default" {
		itemID = ""
	}

	body, _ := json.Marshal(map[string]string{"item_id": itemID})
	req, err := http.NewRequest(http.MethodPut, daemonAddr+"/v1/stats/avatar", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("select avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var stats statsView
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	fmt.Printf("✓ Active avatar: %s\n", stats.ActiveAvatar)
	return nil
}
