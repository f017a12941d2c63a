package driver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progracyd/newsim/internal/config"
	"github.com/progracyd/newsim/internal/logging"
	"github.com/progracyd/newsim/internal/store"
)

const sampleStream = `{"id":"n1","headline":"A","timestamp":1000,"tag_company":["acme"],"text_body_stemmed":["stock","surg","earn","beat"]}
{"id":"n2","headline":"B","timestamp":1005,"tag_company":["acme"],"text_body_stemmed":["stock","surg","earn","beat"]}
{"id":"n3","headline":"C","timestamp":1010,"tag_company":["acme"],"text_body_stemmed":["weather","rain","flood","alert"]}
`

func testConfig() config.Config {
	cfg := config.Default()
	cfg.K, cfg.B, cfg.R = 16, 8, 2
	return cfg
}

func TestRun_EndToEndFindsDuplicate(t *testing.T) {
	adapter := store.NewMem()
	log := logging.New(false, false)
	opts := DefaultOptions()
	opts.ParamsSeed = 7

	d := New(adapter, testConfig(), log, opts)
	report, err := d.Run(context.Background(), strings.NewReader(sampleStream))
	require.NoError(t, err)
	assert.False(t, report.Failed)
	assert.EqualValues(t, 3, report.Stats.ArticlesIngested)

	// n1 and n2 carry identical tokens and n2 has the later timestamp.
	_, found, err := adapter.HGet(context.Background(), store.DupCandKey("n2"), "n1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRun_ParameterMismatchAborts(t *testing.T) {
	adapter := store.NewMem()
	log := logging.New(false, false)

	cfg := testConfig()
	d1 := New(adapter, cfg, log, DefaultOptions())
	_, err := d1.Run(context.Background(), strings.NewReader(sampleStream))
	require.NoError(t, err)

	cfg2 := cfg
	cfg2.K, cfg2.B, cfg2.R = 32, 16, 2
	d2 := New(adapter, cfg2, log, DefaultOptions())
	_, err = d2.Run(context.Background(), strings.NewReader(sampleStream))
	assert.Error(t, err)
}

func TestRun_MalformedRecordCountedNotFatal(t *testing.T) {
	adapter := store.NewMem()
	log := logging.New(false, false)

	stream := sampleStream + "not json\n"
	d := New(adapter, testConfig(), log, DefaultOptions())
	report, err := d.Run(context.Background(), strings.NewReader(stream))
	require.NoError(t, err)
	assert.EqualValues(t, 1, report.Stats.ArticlesSkippedMalformed)
}
