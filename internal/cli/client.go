package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/datastore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/localstore"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/notify"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/remote"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/session"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/stats"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/client/syncer"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	syncrepo "github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/database/sync"
)

// clientFlags are accepted by every client command.
type clientFlags struct {
	DataPath string
	APIURL   string
}

func (f *clientFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&f.DataPath, "data", cfg.Client.DataPath, "Path to the local cache database")
	fs.StringVar(&f.APIURL, "api", cfg.Client.APIURL, "Base URL of the FocusMode API")
}

// clientEnv is the wired client stack shared by the commands.
type clientEnv struct {
	backend localstore.Backend
	session *session.Context
	api     *remote.Client
	store   *datastore.Manager
	stats   *stats.Aggregator
	syncer  *syncer.Coordinator
	// runs is nil when the cache fell back to the JSON file
	runs *syncrepo.Repository
}

func openClient(cfg *config.Config, f clientFlags) (*clientEnv, error) {
	backend, err := localstore.Open(f.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}

	sess := session.New(localstore.NewCredentialStore(backend))
	if err := sess.Restore(); err != nil {
		log.Printf("Client: %v", err)
	}

	api := remote.NewClient(f.APIURL, cfg.Client.Timeout, sess)
	store := datastore.New(datastore.Options{
		Backend: backend,
		Remote:  api,
		Session: sess,
	})

	env := &clientEnv{
		backend: backend,
		session: sess,
		api:     api,
		store:   store,
		stats:   stats.New(api, store.LocalSessions(), sess, cfg.Stats.Location()),
	}

	opts := syncer.Options{
		Pusher:        store,
		Prober:        api,
		Auth:          sess,
		Notifier:      notify.LogNotifier{},
		Schedule:      cfg.Client.SyncSchedule,
		ProbeInterval: cfg.Client.ProbeInterval,
	}
	if db, ok := backend.(*localstore.DBBackend); ok {
		env.runs = syncrepo.NewRepository(db.DB())
		opts.Recorder = env.runs
	}
	env.syncer = syncer.New(opts)

	return env, nil
}

func (e *clientEnv) Close() {
	e.syncer.Stop()
	if err := e.backend.Close(); err != nil {
		log.Printf("Client: failed to close local cache: %v", err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// splitAction takes the leading sub-action off args, defaulting to def.
func splitAction(args []string, def string) (string, []string) {
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		return args[0], args[1:]
	}
	return def, args
}

func offlineHint(env *clientEnv) {
	if !env.session.Authenticated() {
		fmt.Println("(not signed in: changes are kept locally until you log in and sync)")
	}
}
