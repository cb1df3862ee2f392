// Package vendingapi exposes a vending.Machine over HTTP.
//
// Routes:
//
//	GET    /state                   controller status
//	GET    /offer                   products in stock with prices
//	GET    /inventory               coin counts and stock levels
//	POST   /transactions            start a transaction
//	POST   /transactions/select     {"product_id": 1}
//	POST   /transactions/insert     {"value": 100}
//	POST   /transactions/checkout
//	POST   /transactions/accept     accept reduced change
//	POST   /transactions/cancel
//	POST   /maintenance             start maintenance
//	DELETE /maintenance             end maintenance
//	POST   /maintenance/products    {"products": [{"id": 1, "units": 3}]}
//	POST   /maintenance/cash        {"coins": {"100": 5}}
//	PUT    /maintenance/catalogue   {"catalogue": [{"id": 1, "name": "Soda", "price": 210}]}
//	GET    /journal                 ?kind=&transaction_id=&since=&limit=
//
// Every response uses the envelope {"data": ..., "meta": ..., "error": {"code", "message"}}.
// Controller error kinds map to HTTP statuses; a checkout that cannot pay exact
// change answers 409 with the reduced offer in meta.
package vendingapi
