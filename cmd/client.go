package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andreiblt1304/subscription-service/app/dto"
	"github.com/andreiblt1304/subscription-service/app/types"
	"github.com/andreiblt1304/subscription-service/config"
)

// Client commands drive a running instance over its HTTP API, mirroring the
// shape of the original on-chain interactor CLI.

var (
	addPlanTitle    string
	addPlanDuration uint64
	addPlanPrice    string

	addSubAddress string
	addSubPlanID  uint32
	addSubAmount  string

	getPlanID  uint32
	subAddress string

	activeAddress string
	activeAt      string
)

var addPlanCmd = &cobra.Command{
	Use:   "add-plan",
	Short: "Add a subscription plan",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		var resp dto.PlanEnvelopeResponse
		err = c.postJSON("/plans", &types.CreatePlanRequest{
			Title:        addPlanTitle,
			DurationDays: addPlanDuration,
			Price:        addPlanPrice,
		}, &resp)
		if err != nil {
			return err
		}

		fmt.Printf("Result [%d] for title: %s | duration days: %d | price: %s\n",
			resp.Plan.ID, resp.Plan.Title, resp.Plan.DurationDays, resp.Plan.Price)
		return nil
	},
}

var addSubCmd = &cobra.Command{
	Use:   "add-sub",
	Short: "Add a subscription",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		var resp dto.SubscriptionEnvelopeResponse
		err = c.postJSON("/subscriptions", &types.SubscribeRequest{
			Address: addSubAddress,
			PlanId:  addSubPlanID,
			Amount:  addSubAmount,
		}, &resp)
		if err != nil {
			return err
		}

		fmt.Printf("Plan ID %d | Amount %s: Subscription added\n", addSubPlanID, addSubAmount)
		return nil
	},
}

var getPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Get a subscription plan",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		var resp dto.PlanEnvelopeResponse
		found, err := c.getJSON(fmt.Sprintf("/plans/%d", getPlanID), &resp)
		if err != nil {
			return err
		}
		if !found {
			fmt.Printf("Plan ID [%d] not found\n", getPlanID)
			return nil
		}

		fmt.Printf("Plan ID [%d]: Title: %s | Duration (days): %d | Price: %s\n",
			resp.Plan.ID, resp.Plan.Title, resp.Plan.DurationDays, resp.Plan.Price)
		return nil
	},
}

var getSubCmd = &cobra.Command{
	Use:   "sub",
	Short: "Get a subscription",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		var resp dto.SubscriptionEnvelopeResponse
		found, err := c.getJSON("/subscriptions/"+subAddress, &resp)
		if err != nil {
			return err
		}
		if !found {
			fmt.Printf("Subscription for [%s] not found\n", subAddress)
			return nil
		}

		s := resp.Subscription
		fmt.Printf("Subscription for [%s]: Plan ID: %d | Started At: %s | Expires At: %s | Paid Amount: %s\n",
			s.Address, s.PlanID, s.StartedAt, s.ExpiresAt, s.PaidAmount)
		return nil
	},
}

var planIDsCmd = &cobra.Command{
	Use:   "plans-ids",
	Short: "Get all subscription plan IDs",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		var resp dto.ListPlanIDsResponse
		if _, err := c.getJSON("/plans", &resp); err != nil {
			return err
		}

		ids := make([]string, 0, len(resp.PlanIDs))
		for _, id := range resp.PlanIDs {
			ids = append(ids, fmt.Sprintf("%d", id))
		}
		fmt.Printf("Plan IDs: [%s]\n", strings.Join(ids, ", "))
		return nil
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Check whether an address holds a valid subscription",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/subscriptions/" + activeAddress + "/active"
		if activeAt != "" {
			path += "?at=" + activeAt
		}

		var resp dto.IsActiveResponse
		if _, err := c.getJSON(path, &resp); err != nil {
			return err
		}

		fmt.Printf("Subscription for [%s] active: %t\n", activeAddress, resp.Active)
		return nil
	},
}

func init() {
	addPlanCmd.Flags().StringVarP(&addPlanTitle, "title", "t", "", "The title of the subscription plan")
	addPlanCmd.Flags().Uint64VarP(&addPlanDuration, "duration", "d", 0, "The duration of the subscription plan in days")
	addPlanCmd.Flags().StringVarP(&addPlanPrice, "price", "p", "", "The price of the subscription plan in the smallest currency unit")
	_ = addPlanCmd.MarkFlagRequired("title")
	_ = addPlanCmd.MarkFlagRequired("duration")
	_ = addPlanCmd.MarkFlagRequired("price")

	addSubCmd.Flags().StringVar(&addSubAddress, "address", "", "The subscriber address")
	addSubCmd.Flags().Uint32VarP(&addSubPlanID, "id", "i", 0, "The id of the subscription plan")
	addSubCmd.Flags().StringVarP(&addSubAmount, "amount", "a", "", "The amount paid for the subscription")
	_ = addSubCmd.MarkFlagRequired("address")
	_ = addSubCmd.MarkFlagRequired("id")
	_ = addSubCmd.MarkFlagRequired("amount")

	getPlanCmd.Flags().Uint32VarP(&getPlanID, "id", "i", 0, "The id of the subscription plan")
	_ = getPlanCmd.MarkFlagRequired("id")

	getSubCmd.Flags().StringVarP(&subAddress, "address", "a", "", "The subscriber address")
	_ = getSubCmd.MarkFlagRequired("address")

	activeCmd.Flags().StringVarP(&activeAddress, "address", "a", "", "The subscriber address")
	activeCmd.Flags().StringVar(&activeAt, "at", "", "RFC3339 instant to evaluate, defaults to now")
	_ = activeCmd.MarkFlagRequired("address")

	rootCmd.AddCommand(addPlanCmd)
	rootCmd.AddCommand(addSubCmd)
	rootCmd.AddCommand(getPlanCmd)
	rootCmd.AddCommand(getSubCmd)
	rootCmd.AddCommand(planIDsCmd)
	rootCmd.AddCommand(activeCmd)
}

type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient() (*apiClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &apiClient{
		baseURL: strings.TrimRight(cfg.Client.APIBaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Client.Timeout},
	}, nil
}

func (c *apiClient) postJSON(path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, raw)
	}

	return json.Unmarshal(raw, out)
}

// getJSON returns found=false for a 404 so callers can print the interactor's
// "not found" line instead of failing.
func (c *apiClient) getJSON(path string, out interface{}) (bool, error) {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 400 {
		return false, apiError(resp.StatusCode, raw)
	}

	return true, json.Unmarshal(raw, out)
}

func apiError(status int, raw []byte) error {
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return fmt.Errorf("request failed (%d): %s", status, body.Error)
	}
	return fmt.Errorf("request failed (%d)", status)
}
