// Package mongo connects to MongoDB for the journal backend.
//
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//	db := client.Database(cfg.Database)
package mongo
