package workers

import (
	"time"

	log "github.com/sirupsen/logrus"

	"golunesbridge/bridge"
	"golunesbridge/redis"
	"golunesbridge/types"
)

// Worker_resume re-attaches tracking sessions to mirrored transactions that
// are still in flight, so a process restart never orphans them. Sessions
// started here only keep the mirror current; the submitting client gets its
// state from /tx/{id}.
func Worker_resume(store *redis.Store, tracker *bridge.Tracker) {
	for !WorkerShutdown {
		time.Sleep(30 * time.Second)

		for _, status := range []types.TxStatus{types.StatusPending, types.StatusProcessing} {
			inflight, err := store.FindAllTransactionsByStatus(status)
			if err != nil {
				log.Printf("error listing %s transactions: %s", status, err.Error())
				continue
			}

			for _, tx := range inflight {
				if tracker.IsTracking(tx.ID) {
					continue
				}

				log.Printf("Resuming tracking of %s transaction %s", tx.Status, tx.ID)
				id := tx.ID
				tracker.StartTracking(id, func(record *types.BridgeTransaction) {
					if record.Status.Terminal() {
						log.Printf("Resumed transaction %s reached %s", id, record.Status)
					}
				})
			}
		}
	}
}
