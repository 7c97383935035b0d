// workers/member_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"community-level-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredMember matches the JSON the gateway's member snapshot endpoint
// returns: held roles plus current voice state per member per guild.
type MirroredMember struct {
	UserID       string    `json:"user_id"`
	GuildID      string    `json:"guild_id"`
	Username     string    `json:"username"`
	RoleIDs      []string  `json:"role_ids"`
	InVoice      bool      `json:"in_voice"`
	SelfDeafened bool      `json:"self_deafened"`
	IsBot        bool      `json:"is_bot"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetMemberChangesResponse is the top-level structure of the gateway response.
type GetMemberChangesResponse struct {
	Members []MirroredMember `json:"members"`
}

// MemberSyncWorker mirrors gateway-side member state (roles, voice presence)
// into the member_mirrors table so the accrual jobs never call the platform
// on the hot path.
type MemberSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewMemberSyncWorker(db *gorm.DB, gatewayBaseURL, endpointPath, serviceToken string) *MemberSyncWorker {
	return &MemberSyncWorker{
		db:           db,
		interval:     30 * time.Second,
		baseURL:      gatewayBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *MemberSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Member Sync Worker (gateway → member_mirrors)…")
	go w.run(ctx)
}

func (w *MemberSyncWorker) run(ctx context.Context) {
	// Initial full sync so accrual has data right after startup
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial member sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	lastSync := time.Now().UTC()
	for {
		select {
		case <-ctx.Done():
			log.Println("Member sync worker stopped.")
			return
		case <-ticker.C:
			tickStart := time.Now().UTC()
			if err := w.syncBatch(ctx, lastSync); err != nil {
				log.Printf("❌ Member sync failed: %v", err)
				// Keep the old window so the same changes are retried next tick
				continue
			}
			lastSync = tickStart
		}
	}
}

func (w *MemberSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	members, err := w.fetchChangedMembers(ctx, since)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	now := time.Now().UTC()
	mirrors := make([]models.MemberMirror, 0, len(members))
	for _, m := range members {
		mirrors = append(mirrors, models.MemberMirror{
			UserID:       m.UserID,
			GuildID:      m.GuildID,
			Username:     m.Username,
			RoleIDs:      strings.Join(m.RoleIDs, ","),
			InVoice:      m.InVoice,
			SelfDeafened: m.SelfDeafened,
			IsBot:        m.IsBot,
			SyncedAt:     now,
		})
	}

	if err := w.db.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "guild_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username",
				"role_ids",
				"in_voice",
				"self_deafened",
				"is_bot",
				"synced_at",
				"updated_at",
			}),
		},
	).Create(&mirrors).Error; err != nil {
		return fmt.Errorf("failed to upsert %d member(s): %w", len(mirrors), err)
	}

	log.Printf("📥 Synced %d member change(s) from gateway.", len(mirrors))
	return nil
}

func (w *MemberSyncWorker) fetchChangedMembers(ctx context.Context, since time.Time) ([]MirroredMember, error) {
	u, err := url.Parse(w.baseURL + w.endpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gateway URL: %w", err)
	}
	if !since.IsZero() {
		q := u.Query()
		q.Set("since", since.UTC().Format(time.RFC3339))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var response GetMemberChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return response.Members, nil
}
