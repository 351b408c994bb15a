package ikona

import "os"
import "path/filepath"
import "testing"

func TestLookupSchedulesExactlyOnce(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.addPNG(t, "icon/000007.png", solidImage(6, 4, 120))

	if handle := env.cache.Lookup(7); handle != nil { t.Fatal("expected miss") }
	if got := env.cache.Stats().QueuedLoads; got != 1 {
		t.Fatalf("expected 1 queued load, got %d", got)
	}
	for i := 0; i < 3; i++ {
		if handle := env.cache.Lookup(7); handle != nil { t.Fatal("expected miss while pending") }
	}
	if got := env.cache.Stats().QueuedLoads; got != 1 {
		t.Fatalf("repeated misses must not re-schedule, got %d", got)
	}

	env.settle(t)
	handle := env.cache.Lookup(7)
	if handle == nil { t.Fatal("expected handle after decode") }
	width, height := handle.Size()
	if width != 6 || height != 4 { t.Fatalf("expected 6x4, got %dx%d", width, height) }
	if w, h := textureSize(handle.Texture()); w != 6 || h != 6 {
		t.Fatalf("expected 6x6 padded texture, got %dx%d", w, h)
	}
}

func TestLookupConfirmedAbsent(t *testing.T) {
	env := newTestEnv(t, Config{})

	if handle := env.cache.Lookup(404); handle != nil { t.Fatal("expected miss") }
	env.settle(t)
	if handle := env.cache.Lookup(404); handle != nil { t.Fatal("expected confirmed miss") }
	// no retry is scheduled for confirmed misses
	if got := env.cache.Stats().QueuedLoads; got != 0 {
		t.Fatalf("expected 0 queued loads, got %d", got)
	}

	// an explicit override clears the miss and reloads
	env.addPNG(t, "late/icon.png", solidImage(3, 3, 10))
	env.cache.AddOverridePath(404, "late/icon.png")
	if handle := env.cache.Lookup(404); handle != nil { t.Fatal("expected miss before reload") }
	env.settle(t)
	if handle := env.cache.Lookup(404); handle == nil { t.Fatal("expected handle after override") }
}

func TestLookupLocaleFallback(t *testing.T) {
	env := newTestEnv(t, Config { Locale: "de" })
	env.addPNG(t, "icon/de/000099.png", solidImage(4, 4, 70))

	env.cache.Lookup(99)
	env.settle(t)
	if handle := env.cache.Lookup(99); handle == nil {
		t.Fatal("expected locale-specific fallback to load")
	}
}

func TestLookupFrameKey(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.addPNG(t, "frame/000012.png", solidImage(4, 4, 30))

	key := FrameKey(12)
	env.cache.Lookup(key)
	env.settle(t)
	if handle := env.cache.Lookup(key); handle == nil { t.Fatal("expected frame texture") }
}

func TestLookupGrayscaleVariant(t *testing.T) {
	env := newTestEnv(t, Config { Grayscale: true })
	env.addPNG(t, "icon/000005.png", solidImage(4, 4, 240))

	env.cache.Lookup(5)
	env.settle(t)
	handle := env.cache.Lookup(5)
	if handle == nil { t.Fatal("expected handle") }
	// channel replication happens before upload, so just ensure we got
	// the right dimensions; pixel math is covered by pad_test
	if w, h := handle.Size(); w != 4 || h != 4 { t.Fatalf("expected 4x4, got %dx%d", w, h) }
}

func TestOverrideReplacementDisposesOnce(t *testing.T) {
	env := newTestEnv(t, Config{})
	dir := t.TempDir()
	pathA := writePNG(t, dir, "a.png", solidImage(4, 4, 50))
	pathB := writePNG(t, dir, "b.png", solidImage(8, 8, 50))

	env.cache.AddOverrideImage(77, pathA)
	first := env.cache.Lookup(77) // direct uploads load synchronously
	if first == nil { t.Fatal("expected synchronous user image load") }

	env.cache.AddOverrideImage(77, pathB)
	if first.Alive() { t.Fatal("expected first handle to be disposed") }
	if first.release() { t.Fatal("first handle must be disposed exactly once") }

	second := env.cache.Lookup(77)
	if second == nil { t.Fatal("expected reload from the new path") }
	if w, _ := second.Size(); w != 8 { t.Fatalf("expected the new source (8px), got %d", w) }
}

func TestUserKeyWithoutRegistration(t *testing.T) {
	env := newTestEnv(t, Config{})
	if handle := env.cache.Lookup(UserKey(3)); handle != nil { t.Fatal("expected miss") }
	e, found := env.cache.store.get(UserKey(3))
	if !found { t.Fatal("expected a confirmed-absent entry") }
	if e.state != entryMissing { t.Fatalf("expected missing state, got %d", e.state) }
}

func TestLoadDirectory(t *testing.T) {
	env := newTestEnv(t, Config{})
	dir := t.TempDir()
	writePNG(t, dir, "1.png", solidImage(4, 4, 10))
	writePNG(t, dir, "2.jpg", solidImage(4, 4, 20)) // png bytes, still decodable
	writePNG(t, dir, "2.png", solidImage(4, 4, 30)) // key conflict with 2.jpg
	writePNG(t, dir, "notes.txt", solidImage(2, 2, 0)) // non-integer name
	badPath := filepath.Join(dir, "3.png")
	if err := os.WriteFile(badPath, []byte("not an image"), 0644); err != nil {
		t.Fatalf("unexpected write error: %s", err)
	}

	if !env.cache.LoadDirectory(dir) { t.Fatal("expected load to succeed") }

	env.cache.tablesMutex.RLock()
	registered := make(map[Key]string, len(env.cache.imageOverrides))
	for key, path := range env.cache.imageOverrides { registered[key] = path }
	env.cache.tablesMutex.RUnlock()

	if len(registered) != 2 {
		t.Fatalf("expected 2 user images, got %d: %v", len(registered), registered)
	}
	if _, found := registered[UserKey(1)]; !found { t.Fatal("expected key -1") }
	// enumeration is sorted, so 2.jpg wins and 2.png is skipped
	if path := registered[UserKey(2)]; filepath.Ext(path) != ".jpg" {
		t.Fatalf("expected 2.jpg to win the conflict, got %s", path)
	}

	if handle := env.cache.Lookup(UserKey(1)); handle == nil {
		t.Fatal("expected user image to load")
	}

	// clearing via empty path
	if !env.cache.LoadDirectory("") { t.Fatal("expected clear to succeed") }
	if handle := env.cache.Lookup(UserKey(1)); handle != nil {
		t.Fatal("expected user image to be gone")
	}
}

func TestLoadDirectoryRejectedWhileBusy(t *testing.T) {
	env := newTestEnv(t, Config{})
	dir := t.TempDir()
	writePNG(t, dir, "1.png", solidImage(4, 4, 10))

	gate := make(chan struct{})
	env.cache.scheduler.enqueue(func() { <-gate })
	env.nexus.Tick()

	if env.cache.LoadDirectory(dir) { t.Fatal("expected rejection while busy") }
	env.cache.tablesMutex.RLock()
	size := len(env.cache.imageOverrides)
	env.cache.tablesMutex.RUnlock()
	if size != 0 { t.Fatalf("rejection must not mutate the table, got %d entries", size) }

	close(gate)
	waitFor(t, "task drain", func() bool { return !env.cache.IsBusy() })
	if !env.cache.LoadDirectory(dir) { t.Fatal("expected load to succeed once idle") }
}

func TestDispose(t *testing.T) {
	env := newTestEnv(t, Config{})
	handle := populateEntry(t, env.cache, 11)

	env.cache.Dispose()
	if handle.Alive() { t.Fatal("expected handle to be disposed") }
	if env.cache.store.size() != 0 { t.Fatal("expected empty store") }
	if handle := env.cache.Lookup(11); handle != nil { t.Fatal("expected nil after dispose") }
	if env.cache.store.size() != 0 { t.Fatal("disposed caches must not repopulate") }
	env.cache.Dispose() // second dispose is a no-op
	if env.nexus.NumSubscribers() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", env.nexus.NumSubscribers())
	}
}

func TestStatsSnapshot(t *testing.T) {
	env := newTestEnv(t, Config{})
	env.addPNG(t, "icon/000001.png", solidImage(2, 2, 5))
	env.cache.Lookup(1)
	stats := env.cache.Stats()
	if stats.QueuedLoads != 1 { t.Fatalf("expected 1 queued, got %d", stats.QueuedLoads) }
	if stats.Entries != 1 { t.Fatalf("expected 1 entry, got %d", stats.Entries) }
	env.settle(t)
	stats = env.cache.Stats()
	if stats.QueuedLoads != 0 || stats.InFlightLoads != 0 {
		t.Fatalf("expected idle stats, got %+v", stats)
	}
}

func TestWatchUserDirectory(t *testing.T) {
	env := newTestEnv(t, Config{})
	dir := t.TempDir()
	writePNG(t, dir, "1.png", solidImage(4, 4, 10))

	stop, err := env.cache.WatchUserDirectory(dir)
	if err != nil { t.Fatalf("unexpected error: %s", err) }
	defer stop()

	if handle := env.cache.Lookup(UserKey(1)); handle == nil {
		t.Fatal("expected initial load to register user images")
	}

	writePNG(t, dir, "2.png", solidImage(4, 4, 20))
	waitFor(t, "watcher reload", func() bool {
		env.cache.tablesMutex.RLock()
		defer env.cache.tablesMutex.RUnlock()
		_, found := env.cache.imageOverrides[UserKey(2)]
		return found
	})
	stop()
	stop() // stopping twice is fine
}
