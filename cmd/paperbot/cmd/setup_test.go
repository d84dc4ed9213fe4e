package cmd

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snoopy0103/upbit-ml-paperbot/config"
	"github.com/snoopy0103/upbit-ml-paperbot/journal"
)

func TestBuildLoopFromDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Journal.Type = "none"

	log := logrus.New()
	log.SetOutput(io.Discard)

	loop, err := buildLoop(cfg, journal.Discard{}, log)
	require.NoError(t, err)
	assert.Equal(t, "KRW-BTC", loop.Ledger().Market())
	assert.InDelta(t, 1_000_000, loop.Ledger().Balance(), 1e-9)
}

func TestBuildLoopRejectsBadCooldown(t *testing.T) {
	cfg := config.Default()
	cfg.Risk.Cooldown = "whenever"

	log := logrus.New()
	log.SetOutput(io.Discard)

	_, err := buildLoop(cfg, journal.Discard{}, log)
	assert.Error(t, err)
}

func TestOpenJournal(t *testing.T) {
	cfg := config.Default()
	cfg.Journal.Type = "none"

	j, err := openJournal(cfg)
	require.NoError(t, err)
	assert.Equal(t, journal.Discard{}, j)

	cfg.Journal.Type = "parquet"
	_, err = openJournal(cfg)
	assert.Error(t, err)
}
