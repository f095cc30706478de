// Package models contains the GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// domain type with ToDomain and FromDomain.
//
//   - base.go: BaseModel and AggregateModel
//   - account.go: users and profiles
//   - shop.go: the order, catalog and cart tables read by the analytics
package models
