package chat

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/suPer8Hu/health-chat/internal/ai"
	"gorm.io/gorm"
)

type recordingProvider struct {
	mu    sync.Mutex
	calls [][]ai.Message
	reply string
	err   error
}

func (p *recordingProvider) Chat(ctx context.Context, messages []ai.Message) (string, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	// copy to avoid mutations
	p.calls = append(p.calls, append([]ai.Message(nil), messages...))
	if p.err != nil {
		return "", p.err
	}
	if p.reply == "" {
		return "ok", nil
	}
	return p.reply, nil
}

func (p *recordingProvider) lastPrompt(t *testing.T) string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.calls) == 0 {
		t.Fatalf("provider was never called")
	}
	last := p.calls[len(p.calls)-1]
	return last[len(last)-1].Content
}

func (p *recordingProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// shared-cache memory databases report "table is locked" under concurrent writers
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&ChatTurn{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedTurns(t *testing.T, repo *Repo, userID string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		if err := repo.InsertTurn(context.Background(), &ChatTurn{
			UserID:   userID,
			Message:  fmt.Sprintf("m%d", i),
			Response: fmt.Sprintf("r%d", i),
		}); err != nil {
			t.Fatalf("seed turn %d: %v", i, err)
		}
	}
}

func docxWithParagraphs(t *testing.T, paras ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paras {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	_, _ = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
