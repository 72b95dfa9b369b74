package bridgeapi

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"golunesbridge/types"
)

// SubscribeTransaction opens a websocket stream of records for one
// transaction id. Frames that do not decode are skipped; the reader stops on
// the first socket error and closes the channel so the tracker can fall
// back to polling.
func (c *HTTPClient) SubscribeTransaction(ctx context.Context, id string) (<-chan *types.BridgeTransaction, func(), error) {
	if c.wsURL == "" {
		return nil, nil, websocket.ErrBadHandshake
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL+"/transactions/"+id, nil)
	if err != nil {
		return nil, nil, err
	}

	updates := make(chan *types.BridgeTransaction)
	done := make(chan struct{})

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			conn.Close()
		})
	}

	go func() {
		defer close(updates)
		for {
			var frame transactionResponse
			if err := conn.ReadJSON(&frame); err != nil {
				select {
				case <-done:
				default:
					log.Printf("error reading push frame for tx %s: %s", id, err.Error())
				}
				return
			}

			record, err := decodeTransaction(&frame)
			if err != nil {
				log.Printf("error decoding push frame for tx %s: %s", id, err.Error())
				continue
			}

			select {
			case updates <- record:
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates, stop, nil
}
