// Package lemonway is a client for the LemonWay DirectKit payment API.
//
// Every call follows the same pipeline: the attributes are normalized to
// their camelCase wire keys, merged over the client's default attributes,
// checked against the operation's required and optional keys, written as
// an XML document and posted to the endpoint. The XML reply is decoded into
// a Map with snake_case keys. A reply carrying the error envelope becomes an
// *APIError; anything else is handed to the operation's extractor.
//
//	c, err := lemonway.New(lemonway.WhiteLabel, lemonway.Config{
//		BaseURL: "https://ws.lemonway.fr/mb/demo/dev/directkitxml/Service.asmx",
//		Defaults: lemonway.Attributes{
//			"wl_login": "login", "wl_pass": "secret", "wlPDV": "pdv",
//			"version": "1.0", "language": "fr", "channel": "W",
//			"wallet_ip": "127.0.0.1",
//		},
//	})
//	id, err := c.RegisterWallet(ctx, lemonway.Attributes{
//		"wallet": "w-1", "client_mail": "jane@example.com", "client_title": "M",
//		"client_first_name": "Jane", "client_last_name": "Doe",
//	})
//
// Operations outside the built-in catalog can be declared with NewOperation
// and run with Execute, or posted unchecked with Query.
package lemonway
