package sql

import (
	"crypto/sha1"
	"fmt"
)

type migration struct {
	key   string
	query string
}

func migQuery(query string) migration {
	return migration{
		key:   fmt.Sprintf("%x", sha1.Sum([]byte(query)))[0:8],
		query: query,
	}
}

func migrations() []migration {
	var queries []migration

	// Runs
	queries = append(queries, migQuery("create table sync_runs ("+
		"id              varchar(64)              not null,"+
		"started         datetime                 not null,"+
		"finished        datetime                 null,"+
		"dry_run         tinyint(1)  default 0    not null,"+
		"status          varchar(20) default ''   not null,"+
		"groups_created  int         default 0    not null,"+
		"groups_updated  int         default 0    not null,"+
		"members_added   int         default 0    not null,"+
		"members_removed int         default 0    not null,"+
		"skipped         int         default 0    not null,"+
		"failures        int         default 0    not null,"+
		"PRIMARY KEY (`id`)"+
		");"))
	queries = append(queries, migQuery(`create index sync_runs_status on sync_runs(status, started);`))

	// Activity
	queries = append(queries, migQuery("create table sync_activity ("+
		"id          varchar(64)              not null,"+
		"run_id      varchar(64)              not null,"+
		"timestamp   datetime                 not null,"+
		"operation   varchar(40)  default ''  not null,"+
		"resource    varchar(255) default ''  not null,"+
		"resource_id varchar(255) default ''  not null,"+
		"status      varchar(20)  default ''  not null,"+
		"detail      text                     null,"+
		"PRIMARY KEY (`id`)"+
		");"))
	queries = append(queries, migQuery(`create index sync_activity_run on sync_activity(run_id);`))

	return queries
}
