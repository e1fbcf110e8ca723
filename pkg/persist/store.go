// ABOUTME: Annotation persistence keyed by (documentId, pageNumber)
// ABOUTME: Tracks per-document access times, age-based cleanup and quota recovery

package persist

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pagemark/inkstore/internal/logger"
	"github.com/pagemark/inkstore/internal/metrics"
	"github.com/pagemark/inkstore/pkg/stroke"
)

const (
	keyPrefix = "annotation_"
	pageInfix = "_page_"

	// AccessKey holds the JSON map of documentId to last-access epoch-ms
	AccessKey = "annotation_document_access"

	// DefaultMaxAgeDays is the cleanup horizon used when reclaiming
	// space after a quota-exceeded write.
	DefaultMaxAgeDays = 7
)

// PageKey returns the storage key for one page's stroke list
func PageKey(documentID string, page int) string {
	return fmt.Sprintf("%s%s%s%d", keyPrefix, documentID, pageInfix, page)
}

// StorageStats aggregates read-only storage diagnostics
type StorageStats struct {
	TotalDocuments  int     `json:"totalDocuments"`
	TotalPages      int     `json:"totalPages"`
	EstimatedSizeKB float64 `json:"estimatedSizeKB"`
}

// Store persists page annotation sets into a Backend. Save and Load
// never return errors to the caller; failures surface as sentinel
// values (false / empty list) and are logged with document context.
type Store struct {
	backend Backend
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewStore creates a persistence store over the given backend. The
// metrics argument may be nil.
func NewStore(backend Backend, log *logger.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Store{
		backend: backend,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// Save serializes and writes strokes for one page, truncating to the
// most recent MaxStrokesPerPage first. On a write failure it runs one
// round of age-based cleanup and retries once. Returns false on any
// failure, never an error.
func (s *Store) Save(documentID string, page int, strokes []stroke.Stroke) bool {
	if len(strokes) > stroke.MaxStrokesPerPage {
		strokes = strokes[len(strokes)-stroke.MaxStrokesPerPage:]
	}

	raw, err := json.Marshal(strokes)
	if err != nil {
		s.log.LogStoreOperation("save", documentID, page, len(strokes), err)
		s.recordOp("save", err)
		return false
	}

	key := PageKey(documentID, page)
	err = s.backend.Set(key, string(raw))
	if err != nil {
		s.log.Warn("Write failed, attempting cleanup").
			Str("document_id", documentID).
			Int("page", page).
			Err(err).
			Msg("Persistence write failure")

		removed := s.CleanupOldDocuments(DefaultMaxAgeDays)
		if s.metrics != nil {
			s.metrics.QuotaRetriesTotal.Inc()
		}
		s.log.Info("Cleanup before retry").
			Int("documents_removed", removed).
			Msg("Reclaimed space")

		err = s.backend.Set(key, string(raw))
	}

	s.log.LogStoreOperation("save", documentID, page, len(strokes), err)
	s.recordOp("save", err)
	if err != nil {
		return false
	}

	s.touchDocument(documentID)
	return true
}

// Load reads and deserializes one page's strokes. A missing key,
// malformed JSON or structurally invalid records yield an empty list;
// the corrupt key is left in place for a later explicit clear. A
// successful load refreshes the document's access timestamp.
func (s *Store) Load(documentID string, page int) []stroke.Stroke {
	raw, ok := s.backend.Get(PageKey(documentID, page))
	if !ok {
		return nil
	}

	var strokes []stroke.Stroke
	if err := json.Unmarshal([]byte(raw), &strokes); err != nil {
		s.log.LogStoreOperation("load", documentID, page, 0, err)
		s.recordOp("load", err)
		return nil
	}

	for _, st := range strokes {
		if !st.Valid() {
			s.log.Warn("Discarding structurally invalid stroke data").
				Str("document_id", documentID).
				Int("page", page).
				Msg("Corrupt annotation record")
			s.recordOp("load", fmt.Errorf("invalid stroke record"))
			return nil
		}
	}

	s.touchDocument(documentID)
	s.recordOp("load", nil)
	return strokes
}

// ClearPage removes exactly one page key. Clearing an absent key is a
// no-op.
func (s *Store) ClearPage(documentID string, page int) {
	err := s.deleteKey(PageKey(documentID, page), documentID)
	s.recordOp("clear_page", err)
}

// ClearDocument removes every page key and the access record for one
// document, leaving all other documents untouched.
func (s *Store) ClearDocument(documentID string) {
	prefix := keyPrefix + documentID + pageInfix
	for _, key := range s.backend.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.deleteKey(key, documentID)
		}
	}

	access := s.readAccess()
	if _, ok := access[documentID]; ok {
		delete(access, documentID)
		s.writeAccess(access)
	}
	s.recordOp("clear_document", nil)
}

// CleanupOldDocuments removes every document whose last access is
// older than maxAgeDays and returns how many documents were removed.
// Documents with no access record are never cleaned.
func (s *Store) CleanupOldDocuments(maxAgeDays int) int {
	access := s.readAccess()
	cutoff := s.now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour).UnixMilli()

	removed := 0
	for documentID, lastAccess := range access {
		if lastAccess >= cutoff {
			continue
		}

		prefix := keyPrefix + documentID + pageInfix
		for _, key := range s.backend.Keys() {
			if strings.HasPrefix(key, prefix) {
				s.deleteKey(key, documentID)
			}
		}
		delete(access, documentID)
		removed++

		s.log.Info("Removed stale document annotations").
			Str("document_id", documentID).
			Int64("last_access_ms", lastAccess).
			Msg("Age-based cleanup")
	}

	if removed > 0 {
		s.writeAccess(access)
		if s.metrics != nil {
			s.metrics.DocumentsCleanedTotal.Add(float64(removed))
		}
	}
	return removed
}

// Stats enumerates all stored keys and reports aggregate diagnostics
func (s *Store) Stats() StorageStats {
	stats := StorageStats{}
	documents := make(map[string]bool)

	var totalBytes int
	for _, key := range s.backend.Keys() {
		value, ok := s.backend.Get(key)
		if !ok {
			continue
		}
		totalBytes += len(key) + len(value)

		if key == AccessKey || !strings.HasPrefix(key, keyPrefix) {
			continue
		}
		idx := strings.LastIndex(key, pageInfix)
		if idx <= len(keyPrefix) {
			continue
		}
		documents[key[len(keyPrefix):idx]] = true
		stats.TotalPages++
	}

	stats.TotalDocuments = len(documents)
	stats.EstimatedSizeKB = float64(totalBytes) / 1024.0

	if s.metrics != nil {
		s.metrics.UpdateStorageStats(stats.TotalDocuments, stats.TotalPages, stats.EstimatedSizeKB)
	}
	return stats
}

// deleteKey removes one stored key, logging any backend failure with
// document context rather than dropping it.
func (s *Store) deleteKey(key, documentID string) error {
	err := s.backend.Delete(key)
	if err != nil {
		s.log.Warn("Failed to remove stored key").
			Str("key", key).
			Str("document_id", documentID).
			Err(err).
			Msg("Persistence delete failure")
	}
	return err
}

// touchDocument stamps the document's last-access time with now
func (s *Store) touchDocument(documentID string) {
	access := s.readAccess()
	access[documentID] = s.now().UnixMilli()
	s.writeAccess(access)
}

func (s *Store) readAccess() map[string]int64 {
	access := make(map[string]int64)
	raw, ok := s.backend.Get(AccessKey)
	if !ok {
		return access
	}
	if err := json.Unmarshal([]byte(raw), &access); err != nil {
		s.log.Warn("Unreadable access map, starting fresh").Err(err).Msg("Access map corrupt")
		return make(map[string]int64)
	}
	if access == nil {
		access = make(map[string]int64)
	}
	return access
}

func (s *Store) writeAccess(access map[string]int64) {
	raw, err := json.Marshal(access)
	if err != nil {
		return
	}
	if err := s.backend.Set(AccessKey, string(raw)); err != nil {
		// Access bookkeeping must never fail a save.
		s.log.Warn("Failed to update access map").Err(err).Msg("Access map write failure")
	}
}

func (s *Store) recordOp(operation string, err error) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(operation, err)
	}
}
