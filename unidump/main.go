// Command unidump prints what OLA currently holds for every patched beat light.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/nickysemenza/gola"
	"github.com/robmorgan/tempo/config"
	"github.com/robmorgan/tempo/profile"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("could not create config: %v", err)
	}

	addr := flag.String("ola", "localhost:9010", "OLA daemon address")
	flag.Parse()

	client, err := gola.New(*addr)
	if err != nil {
		panic("could not create client")
	}
	defer client.Close()

	universes := make(map[int][]byte)
	for _, pf := range cfg.PatchedFixtures {
		if _, ok := universes[pf.Universe]; ok {
			continue
		}
		x, err := client.GetDmx(pf.Universe)
		if err != nil {
			log.Printf("GetDmx: %d: %v", pf.Universe, err)
			continue
		}
		universes[pf.Universe] = x.Data
	}

	for _, pf := range cfg.PatchedFixtures {
		data, ok := universes[pf.Universe]
		if !ok {
			continue
		}
		fmt.Println(fixtureReport(pf, cfg.FixtureProfiles[pf.Profile], data))
	}
}

// fixtureReport renders the channel values of one fixture in offset order.
// Channels past the end of data read as zero.
func fixtureReport(pf config.PatchedFixture, p profile.Profile, data []byte) string {
	type channel struct {
		name   string
		offset int
	}
	channels := make([]channel, 0, len(p.Channels))
	for name, off := range p.Channels {
		channels = append(channels, channel{strings.TrimPrefix(name, "channel:type:"), off})
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].offset < channels[j].offset })

	parts := make([]string, 0, len(channels))
	for _, c := range channels {
		idx := pf.Address + c.offset - 2
		val := 0
		if idx >= 0 && idx < len(data) {
			val = int(data[idx])
		}
		parts = append(parts, fmt.Sprintf("%s=%d", c.name, val))
	}
	return fmt.Sprintf("%s (u%d@%d, metronome %d): %s", pf.Name, pf.Universe, pf.Address, pf.Metronome, strings.Join(parts, " "))
}
