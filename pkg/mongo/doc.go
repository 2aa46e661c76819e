// Package mongo connects the MongoDB backend of the credential store using
// the official v2 driver.
//
//	db, err := mongo.ConnectDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store, err := credstore.NewMongo(ctx, db)
//
// Configuration is read from MONGODB_* environment variables.
package mongo
