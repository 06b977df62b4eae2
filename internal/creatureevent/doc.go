// Package creatureevent routes game lifecycle moments to Lua hooks.
//
// Definitions come from two places: the static definitions file read by
// Loader.LoadDefinitions, and scripts that call the CreatureEvent(...) API
// while Loader.LoadScripts runs them. Both end up in one Registry, which
// keeps login, logout and advance hooks as ordered broadcast lists and every
// other category in a single name index that creatures and items attach to.
//
// Each category has one Execute method on Definition that marshals its
// arguments, calls the hook through the shared script.Bridge and interprets
// the result. Failures never escape as errors or panics: they are reported
// through the bridge and the caller receives the category's safe default.
package creatureevent
