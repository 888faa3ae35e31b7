// Package bruteforce provides a point index that answers kNN queries by
// scanning all points and ranking them by Euclidean distance. It also owns
// the compact binary format shared by the other index implementations.
package bruteforce
