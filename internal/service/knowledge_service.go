package service

import (
	"context"
	"fmt"
	"sync"

	"ai-support-chatbot-be/internal/pkg/logger"
	"ai-support-chatbot-be/pkg/datasource"
	"ai-support-chatbot-be/pkg/events"
	"ai-support-chatbot-be/pkg/knowledge"
	pktNats "ai-support-chatbot-be/pkg/nats"
	"ai-support-chatbot-be/pkg/vectorstore"
)

type IKnowledgeService interface {
	// Rebuild fetches the catalog and republishes the index.
	Rebuild(ctx context.Context, trigger string) error

	// RebuildFrom republishes the index from already-fetched records,
	// used by the watcher to avoid a second fetch.
	RebuildFrom(ctx context.Context, records []datasource.RawRecord, trigger string) error

	IndexVersion() string
}

type KnowledgeConfig struct {
	FAQPath      string
	ChunkSize    int
	ChunkOverlap int
}

type knowledgeService struct {
	source         datasource.DataSource
	compiler       *knowledge.Compiler
	index          vectorstore.VectorIndex
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
	cfg            KnowledgeConfig

	// Serializes rebuilds so the watcher and the manual endpoint
	// cannot interleave corpus writes.
	mu sync.Mutex
}

func NewKnowledgeService(
	source datasource.DataSource,
	compiler *knowledge.Compiler,
	index vectorstore.VectorIndex,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	cfg KnowledgeConfig,
) IKnowledgeService {
	return &knowledgeService{
		source:         source,
		compiler:       compiler,
		index:          index,
		eventPublisher: eventPublisher,
		log:            log,
		cfg:            cfg,
	}
}

func (s *knowledgeService) Rebuild(ctx context.Context, trigger string) error {
	records, err := s.source.FetchRawRecords(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	return s.RebuildFrom(ctx, records, trigger)
}

func (s *knowledgeService) RebuildFrom(ctx context.Context, records []datasource.RawRecord, trigger string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	about, err := s.source.AboutText(ctx)
	if err != nil {
		return fmt.Errorf("load about text: %w", err)
	}

	faqs, err := knowledge.LoadFAQs(s.cfg.FAQPath)
	if err != nil {
		return fmt.Errorf("load faqs: %w", err)
	}

	corpus := s.compiler.Compile(about, faqs, records)
	if err := s.compiler.WriteCorpus(corpus); err != nil {
		return err
	}

	// Chunking always reads the artifact back, so a broken write
	// surfaces here instead of producing a corrupt index.
	stored, err := s.compiler.ReadCorpus()
	if err != nil {
		return err
	}

	chunks, err := knowledge.SplitCorpus(stored, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("split corpus: %w", err)
	}

	if err := s.index.Rebuild(ctx, chunks); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	version := s.index.Version()
	s.log.Info("knowledge", "index rebuilt", map[string]interface{}{
		"version": version,
		"chunks":  len(chunks),
		"records": len(records),
		"trigger": trigger,
	})

	evt := events.NewKnowledgeRebuilt(version, len(chunks), trigger)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("knowledge", "failed to publish rebuild event", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

func (s *knowledgeService) IndexVersion() string {
	return s.index.Version()
}
