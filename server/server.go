// Package server provides the in-process Codec: the types package
// codec wrapped with input limits, a decode cache, batch decoding,
// structured logging and metrics.
package server

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/blockberries/cellcodec"
	"github.com/blockberries/cellcodec/ckbhash"
	"github.com/blockberries/cellcodec/types"
)

// Compile-time interface checks.
var (
	_ cellcodec.Connection   = (*Server)(nil)
	_ cellcodec.BatchDecoder = (*Server)(nil)
)

// Server implements cellcodec.Connection in process. Every transport
// serves through a Server, so limits and error classification are the
// same regardless of how a caller connects.
type Server struct {
	cfg     Config
	log     zerolog.Logger
	metrics *Metrics
	guard   *LifecycleGuard

	// Decoded transactions keyed by the hash of the full record. Nil
	// when Config.CacheSize is zero.
	cache *lru.Cache[types.Hash32, types.TransactionView]
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithMetrics records requests into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a Server. It fails only when the configuration is invalid.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		cfg:   DefaultConfig(),
		log:   zerolog.Nop(),
		guard: NewLifecycleGuard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.LogLevel != "" {
		level, _ := zerolog.ParseLevel(s.cfg.LogLevel)
		s.log = s.log.Level(level)
	}
	s.log = s.log.With().Str("component", "cellcodec").Logger()

	if s.cfg.CacheSize > 0 {
		cache, err := lru.New[types.Hash32, types.TransactionView](s.cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("server: create cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Config returns the configuration in effect.
func (s *Server) Config() Config {
	return s.cfg
}

// Logger returns the server's logger, for transports that serve through
// it.
func (s *Server) Logger() zerolog.Logger {
	return s.log
}

// CacheLen returns the number of cached transactions.
func (s *Server) CacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// DecodeTransaction decodes a molecule Transaction. Repeated records are
// served from the cache; callers always receive their own copy.
func (s *Server) DecodeTransaction(ctx context.Context, data []byte) (types.TransactionView, error) {
	const op = "DecodeTransaction"
	if err := s.begin(ctx); err != nil {
		return types.TransactionView{}, err
	}
	defer s.guard.Release()

	tx, err := s.decodeTransaction(op, op, data)
	s.finish(op, err)
	return tx, err
}

// DecodeTransactions decodes records concurrently, bounded by
// Config.BatchConcurrency. Results are in input order. The first failure
// cancels the remaining work and is returned with the index of the record
// in its Op.
func (s *Server) DecodeTransactions(ctx context.Context, records [][]byte) ([]types.TransactionView, error) {
	const op = "DecodeTransactions"
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	out := make([]types.TransactionView, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)

	for i, record := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tx, err := s.decodeTransaction(op, fmt.Sprintf("%s[%d]", op, i), record)
			if err != nil {
				return err
			}
			out[i] = tx
			return nil
		})
	}

	err := g.Wait()
	s.finish(op, err)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("records", len(records)).Msg("decoded batch")
	return out, nil
}

// EncodeTransaction encodes tx. The view must satisfy its structural
// invariants, and a non-zero Hash must equal the canonical hash.
func (s *Server) EncodeTransaction(ctx context.Context, tx types.TransactionView) ([]byte, error) {
	const op = "EncodeTransaction"
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	data, err := s.encodeTransaction(op, tx)
	s.finish(op, err)
	return data, err
}

func (s *Server) encodeTransaction(op string, tx types.TransactionView) ([]byte, error) {
	if err := tx.Validate(); err != nil {
		return nil, s.reject(op, err)
	}
	if !tx.Hash.IsZero() {
		if err := tx.VerifyHash(); err != nil {
			return nil, s.reject(op, err)
		}
	}
	return tx.Encode(), nil
}

// DecodeCellOutput decodes a molecule CellOutput.
func (s *Server) DecodeCellOutput(ctx context.Context, data []byte) (types.CellOutput, error) {
	const op = "DecodeCellOutput"
	if err := s.begin(ctx); err != nil {
		return types.CellOutput{}, err
	}
	defer s.guard.Release()

	out, err := decodeRecord(s, op, data, types.DecodeCellOutput)
	s.finish(op, err)
	return out, err
}

// EncodeCellOutput encodes out after checking its script tags.
func (s *Server) EncodeCellOutput(ctx context.Context, out types.CellOutput) ([]byte, error) {
	const op = "EncodeCellOutput"
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	var data []byte
	err := out.Validate()
	if err != nil {
		err = s.reject(op, err)
	} else {
		data = out.Encode()
	}
	s.finish(op, err)
	return data, err
}

// DecodeScript decodes a molecule Script.
func (s *Server) DecodeScript(ctx context.Context, data []byte) (types.Script, error) {
	const op = "DecodeScript"
	if err := s.begin(ctx); err != nil {
		return types.Script{}, err
	}
	defer s.guard.Release()

	script, err := decodeRecord(s, op, data, types.DecodeScript)
	s.finish(op, err)
	return script, err
}

// EncodeScript encodes script after checking its hash type.
func (s *Server) EncodeScript(ctx context.Context, script types.Script) ([]byte, error) {
	const op = "EncodeScript"
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.guard.Release()

	var data []byte
	err := script.Validate()
	if err != nil {
		err = s.reject(op, err)
	} else {
		data = script.Encode()
	}
	s.finish(op, err)
	return data, err
}

// NormalizeScalar returns the canonical text form of text read as kind.
func (s *Server) NormalizeScalar(ctx context.Context, kind types.ScalarKind, text string) (string, error) {
	const op = "NormalizeScalar"
	if err := s.begin(ctx); err != nil {
		return "", err
	}
	defer s.guard.Release()

	var out string
	v, err := types.ParseScalar(kind, text)
	if err != nil {
		err = s.reject(op, err)
	} else {
		out = v.String()
	}
	s.finish(op, err)
	return out, err
}

// Close stops admitting calls, waits for in-flight calls and drops the
// cache. It is safe to call more than once.
func (s *Server) Close() error {
	if !s.guard.Close() {
		return nil
	}
	if s.cache != nil {
		s.cache.Purge()
	}
	s.log.Info().Msg("codec server closed")
	return nil
}

func (s *Server) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.guard.Acquire()
}

// decodeTransaction decodes one record for op. errOp names the record in
// errors and logs; metrics are labeled with op alone, so a batch adds no
// label values per record index.
func (s *Server) decodeTransaction(op, errOp string, data []byte) (types.TransactionView, error) {
	if err := s.checkSize(op, errOp, data); err != nil {
		return types.TransactionView{}, err
	}

	var key types.Hash32
	if s.cache != nil {
		key = types.Hash32(ckbhash.Sum(data))
		if tx, ok := s.cache.Get(key); ok {
			s.metrics.cacheHit()
			return tx.Clone(), nil
		}
		s.metrics.cacheMiss()
	}

	tx, err := types.DecodeTransaction(data)
	if err != nil {
		return types.TransactionView{}, s.reject(errOp, err)
	}
	if s.cache != nil {
		s.cache.Add(key, tx.Clone())
	}
	return tx, nil
}

func decodeRecord[T any](s *Server, op string, data []byte, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if err := s.checkSize(op, op, data); err != nil {
		return zero, err
	}
	v, err := decode(data)
	if err != nil {
		return zero, s.reject(op, err)
	}
	return v, nil
}

// checkSize enforces Config.MaxRecordBytes before any decoding work.
func (s *Server) checkSize(op, errOp string, data []byte) error {
	s.metrics.observeRecord(op, len(data))
	if len(data) <= s.cfg.MaxRecordBytes {
		return nil
	}
	s.log.Warn().
		Str("op", errOp).
		Int("size", len(data)).
		Int("limit", s.cfg.MaxRecordBytes).
		Msg("record exceeds size limit")
	return cellcodec.NewValidationError(errOp, &cellcodec.RecordTooLargeError{Size: len(data), Limit: s.cfg.MaxRecordBytes})
}

// reject classifies err as a validation failure of op.
func (s *Server) reject(op string, err error) error {
	s.log.Debug().
		Str("op", op).
		Str("kind", cellcodec.KindOf(err)).
		Err(err).
		Msg("rejected input")
	return cellcodec.NewValidationError(op, err)
}

func (s *Server) finish(op string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
		if _, ok := cellcodec.IsValidation(err); ok {
			result = resultInvalid
		}
	}
	s.metrics.observe(op, result)
}
