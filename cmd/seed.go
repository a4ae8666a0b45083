package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"vpn-coordination-portal/internal/storage"
	"vpn-coordination-portal/internal/utils"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with demo requests",
	Long:  `Purge the database and insert four demo requests covering every lifecycle state. Intended for local development and admin panel testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if err := provider.PurgeRequests(ctx); err != nil {
			slog.Error("Failed to purge requests", "error", err)
			os.Exit(1)
		}

		for _, req := range demoRequests() {
			if err := assignDemoTokens(req); err != nil {
				slog.Error("Failed to generate tokens", "error", err)
				os.Exit(1)
			}
			if _, err := provider.CreateRequest(ctx, req); err != nil {
				slog.Error("Failed to insert demo request", "name", req.Name, "error", err)
				os.Exit(1)
			}
		}

		fmt.Println("Demo data created:")
		fmt.Println("1. Partner Site A VPN - collecting")
		fmt.Println("2. Remote Office VPN - reviewing (remote agreed)")
		fmt.Println("3. Data Center Link - finalized")
		fmt.Println("4. Vendor Access VPN - cancelled")
	},
}

func assignDemoTokens(req *storage.VPNRequest) error {
	var err error
	if req.RemoteToken, err = utils.GenerateToken(); err != nil {
		return err
	}
	req.LocalToken, err = utils.GenerateToken()
	return err
}

func demoRequests() []*storage.VPNRequest {
	now := time.Now().UTC()
	return []*storage.VPNRequest{
		{
			CreatedAt:          now,
			Name:               "Partner Site A VPN",
			ConnType:           storage.ConnTypePolicy,
			Reason:             "Establish secure connection to partner site for joint project",
			RequesterName:      "John Smith",
			RequesterEmail:     "john.smith@company.com",
			RemoteContactName:  "Alice Johnson",
			RemoteContactEmail: "alice.johnson@partnera.com",
			LocalTeamEmail:     "network-team@company.com",
			Status:             storage.StatusCollecting,
		},
		{
			CreatedAt:          now,
			Name:               "Remote Office VPN",
			ConnType:           storage.ConnTypeRouted,
			Reason:             "Connect remote office to main headquarters",
			RequesterName:      "Sarah Davis",
			RequesterEmail:     "sarah.davis@company.com",
			RemoteContactName:  "Bob Wilson",
			RemoteContactEmail: "bob.wilson@remoteoffice.com",
			LocalTeamEmail:     "network-ops@company.com,security@company.com",
			Status:             storage.StatusReviewing,
			RemoteAgreed:       true,
			RemoteData: &storage.SideConfig{
				ContactName:  "Bob Wilson",
				ContactEmail: "bob.wilson@remoteoffice.com",
				Gateway:      "203.0.113.10",
				IKEVersion:   "IKEv2",
				Encryption:   "AES256/AES256",
				Hashing:      "SHA256",
				DHGroup:      "14",
				Subnets:      "192.168.100.0/24, 192.168.101.0/24",
				Notes:        "Remote office connection for daily operations",
			},
			LocalData: &storage.SideConfig{
				ContactName:  "Network Team",
				ContactEmail: "network-ops@company.com",
				Gateway:      "198.51.100.5",
				IKEVersion:   "IKEv2",
				Encryption:   "AES256/AES256",
				Hashing:      "SHA256",
				DHGroup:      "14",
				Subnets:      "10.0.0.0/8, 172.16.0.0/12",
				Notes:        "Main corporate network",
			},
		},
		{
			CreatedAt:          now,
			Name:               "Data Center Link",
			ConnType:           storage.ConnTypeRouted,
			Reason:             "Backup data center connectivity for DR purposes",
			RequesterName:      "Mike Johnson",
			RequesterEmail:     "mike.johnson@company.com",
			RemoteContactName:  "Lisa Brown",
			RemoteContactEmail: "lisa.brown@datacenter.com",
			LocalTeamEmail:     "infrastructure@company.com",
			Status:             storage.StatusFinalized,
			RemoteAgreed:       true,
			LocalAgreed:        true,
			RemoteData: &storage.SideConfig{
				ContactName:  "Lisa Brown",
				ContactEmail: "lisa.brown@datacenter.com",
				Gateway:      "198.51.100.20",
				IKEVersion:   "IKEv2",
				Encryption:   "AES256/AES256",
				Hashing:      "SHA256",
				DHGroup:      "14",
				Subnets:      "10.100.0.0/16, 10.101.0.0/16",
				Notes:        "Data center backup connection",
			},
			LocalData: &storage.SideConfig{
				ContactName:  "Infrastructure Team",
				ContactEmail: "infrastructure@company.com",
				Gateway:      "203.0.113.50",
				IKEVersion:   "IKEv2",
				Encryption:   "AES256/AES256",
				Hashing:      "SHA256",
				DHGroup:      "14",
				Subnets:      "10.0.0.0/8",
				Notes:        "Main corporate infrastructure",
			},
		},
		{
			CreatedAt:          now,
			Name:               "Vendor Access VPN",
			ConnType:           storage.ConnTypePolicy,
			Reason:             "Temporary vendor access for system maintenance",
			RequesterName:      "Tom Wilson",
			RequesterEmail:     "tom.wilson@company.com",
			RemoteContactName:  "Chris Miller",
			RemoteContactEmail: "chris.miller@vendor.com",
			LocalTeamEmail:     "security-team@company.com",
			Status:             storage.StatusCancelled,
		},
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
