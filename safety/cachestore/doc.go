// Account-status read cache for the safety engine's access gate.
//
// Includes an interface and implementations using redis and in-process memory.
package cachestore
